package output

import (
	"fmt"
	"time"

	"github.com/sdejongh/diffnorris/pkg/config"
)

// Hunk is one run of changed lines: lines [Start0,End0) of the first
// file were replaced by lines [Start1,End1) of the second. Either range
// may be empty (pure insertion or deletion), never both.
type Hunk struct {
	Start0, End0 int
	Start1, End1 int
}

// File carries what the formatters need to render one side
type File struct {
	// Name is the display name (any label already applied)
	Name    string
	ModTime time.Time
	// Lines holds the content split into lines without terminators
	Lines [][]byte
	// NoNewlineAtEOF marks a last line missing its newline
	NoNewlineAtEOF bool
}

// timeFormat matches the header timestamps of context and unified output
const timeFormat = "2006-01-02 15:04:05.000000000 -0700"

// headerName renders "name<TAB>mtime" for file headers. A label stands
// alone: it carries no timestamp.
func headerName(f *File) string {
	if f.ModTime.IsZero() {
		return f.Name
	}
	return f.Name + "\t" + f.ModTime.Format(timeFormat)
}

// Printer renders hunks in the configured style
type Printer struct {
	cfg *config.Config
	q   *Queue
	pal palette
}

// NewPrinter creates a printer for one run
func NewPrinter(cfg *config.Config, q *Queue) *Printer {
	return &Printer{cfg: cfg, q: q, pal: newPalette(cfg.UseColor)}
}

// lineText renders one content line, expanding tabs under -t
func (p *Printer) lineText(line []byte) string {
	if p.cfg.ExpandTabs {
		return p.expandTabs(line)
	}
	return string(line)
}

// markSep separates a change marker from the line text: a tab under
// -T, nothing before an empty line under --suppress-blank-empty.
func (p *Printer) markSep(text string) string {
	if text == "" && p.cfg.SuppressBlankEmpty {
		return ""
	}
	if p.cfg.InitialTab {
		return "\t"
	}
	return " "
}

// PrintHunks renders the whole hunk list for one file pair
func (p *Printer) PrintHunks(a, b *File, hunks []Hunk) {
	switch p.cfg.Style {
	case config.StyleContext:
		p.printContext(a, b, hunks)
	case config.StyleUnified:
		p.printUnified(a, b, hunks)
	case config.StyleEd:
		p.printEd(a, b, hunks)
	case config.StyleForwardEd:
		p.printForwardEd(a, b, hunks)
	case config.StyleRCS:
		p.printRCS(a, b, hunks)
	case config.StyleSideBySide:
		p.printSideBySide(a, b, hunks)
	case config.StyleIfdef:
		p.printIfdef(a, b, hunks)
	default:
		p.printNormal(a, b, hunks)
	}
}

// printNormal emits the default "<" / ">" format
func (p *Printer) printNormal(a, b *File, hunks []Hunk) {
	for _, h := range hunks {
		letter := byte('c')
		if h.Start1 == h.End1 {
			letter = 'd'
		} else if h.Start0 == h.End0 {
			letter = 'a'
		}

		header := fmt.Sprintf("%s%c%s",
			normalRange(h.Start0, h.End0),
			letter,
			normalRange(h.Start1, h.End1))
		p.q.Message("%s\n", p.pal.header(header))

		for i := h.Start0; i < h.End0; i++ {
			text := p.lineText(a.Lines[i])
			p.q.Message("%s%s%s\n", p.pal.del("<"), p.markSep(text), p.pal.del(text))
			p.missingNewline(a, i)
		}
		if letter == 'c' {
			p.q.Message("---\n")
		}
		for i := h.Start1; i < h.End1; i++ {
			text := p.lineText(b.Lines[i])
			p.q.Message("%s%s%s\n", p.pal.add(">"), p.markSep(text), p.pal.add(text))
			p.missingNewline(b, i)
		}
	}
}

// normalRange renders a 1-based line range; an empty range shows the
// line it follows.
func normalRange(start, end int) string {
	if start == end {
		return fmt.Sprint(start)
	}
	if end-start == 1 {
		return fmt.Sprint(start + 1)
	}
	return fmt.Sprintf("%d,%d", start+1, end)
}

func (p *Printer) missingNewline(f *File, i int) {
	if f.NoNewlineAtEOF && i == len(f.Lines)-1 {
		p.q.Message("\\ No newline at end of file\n")
	}
}
// groupHunks merges hunks whose gap is within twice the context so the
// surrounding lines are not printed twice.
func groupHunks(hunks []Hunk, context int) [][]Hunk {
	var groups [][]Hunk
	for _, h := range hunks {
		if n := len(groups); n > 0 {
			last := groups[n-1]
			if h.Start0-last[len(last)-1].End0 <= 2*context {
				groups[n-1] = append(groups[n-1], h)
				continue
			}
		}
		groups = append(groups, []Hunk{h})
	}
	return groups
}

// functionContext finds the most recent line before line0 matching the
// function regexps, truncated the way context headers expect.
func (p *Printer) functionContext(a *File, line0 int) string {
	if !p.cfg.FunctionRegexps.HasPatterns() {
		return ""
	}
	for i := line0 - 1; i >= 0; i-- {
		if p.cfg.FunctionRegexps.Match(a.Lines[i]) {
			s := string(a.Lines[i])
			if len(s) > 40 {
				s = s[:40]
			}
			return s
		}
	}
	return ""
}
