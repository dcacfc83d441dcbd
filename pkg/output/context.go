package output

import (
	"fmt"
)

// printContext emits the copied-context format (-c)
func (p *Printer) printContext(a, b *File, hunks []Hunk) {
	p.q.Message("%s\n", p.pal.header("*** "+headerName(a)))
	p.q.Message("%s\n", p.pal.header("--- "+headerName(b)))

	ctx := p.cfg.Context
	for _, group := range groupHunks(hunks, ctx) {
		first, last := group[0], group[len(group)-1]

		lo0 := max(0, first.Start0-ctx)
		hi0 := min(len(a.Lines), last.End0+ctx)
		lo1 := max(0, first.Start1-ctx)
		hi1 := min(len(b.Lines), last.End1+ctx)

		stars := "***************"
		if fn := p.functionContext(a, first.Start0); fn != "" {
			stars += " " + fn
		}
		p.q.Message("%s\n", stars)

		p.q.Message("*** %s ****\n", contextRange(lo0, hi0))
		if groupChangesSide(group, 0) {
			for i := lo0; i < hi0; i++ {
				text := p.lineText(a.Lines[i])
				p.q.Message("%s%s%s\n", p.pal.del(string(contextMark(group, i, 0))), p.markSep(text), text)
				p.missingNewline(a, i)
			}
		}

		p.q.Message("--- %s ----\n", contextRange(lo1, hi1))
		if groupChangesSide(group, 1) {
			for i := lo1; i < hi1; i++ {
				text := p.lineText(b.Lines[i])
				p.q.Message("%s%s%s\n", p.pal.add(string(contextMark(group, i, 1))), p.markSep(text), text)
				p.missingNewline(b, i)
			}
		}
	}
}

// printUnified emits the unified format (-u)
func (p *Printer) printUnified(a, b *File, hunks []Hunk) {
	p.q.Message("%s\n", p.pal.header("--- "+headerName(a)))
	p.q.Message("%s\n", p.pal.header("+++ "+headerName(b)))

	ctx := p.cfg.Context
	for _, group := range groupHunks(hunks, ctx) {
		first, last := group[0], group[len(group)-1]

		lo0 := max(0, first.Start0-ctx)
		hi0 := min(len(a.Lines), last.End0+ctx)
		lo1 := max(0, first.Start1-ctx)
		hi1 := min(len(b.Lines), last.End1+ctx)

		header := fmt.Sprintf("@@ -%s +%s @@", unifiedRange(lo0, hi0), unifiedRange(lo1, hi1))
		if fn := p.functionContext(a, first.Start0); fn != "" {
			header += " " + fn
		}
		p.q.Message("%s\n", p.pal.header(header))

		i0, i1 := lo0, lo1
		for _, h := range group {
			for ; i0 < h.Start0; i0, i1 = i0+1, i1+1 {
				p.unifiedLine(" ", p.lineText(a.Lines[i0]), nil)
				p.missingNewline(a, i0)
			}
			for ; i0 < h.End0; i0++ {
				p.unifiedLine("-", p.lineText(a.Lines[i0]), p.pal.del)
				p.missingNewline(a, i0)
			}
			for ; i1 < h.End1; i1++ {
				p.unifiedLine("+", p.lineText(b.Lines[i1]), p.pal.add)
				p.missingNewline(b, i1)
			}
		}
		for ; i0 < hi0; i0, i1 = i0+1, i1+1 {
			p.unifiedLine(" ", p.lineText(a.Lines[i0]), nil)
			p.missingNewline(a, i0)
		}
	}
}

// unifiedLine emits one unified output line. The context marker is the
// only separator unless -T requests a tab; a blank context line loses
// its trailing space under --suppress-blank-empty.
func (p *Printer) unifiedLine(mark, text string, colorize func(string) string) {
	if text == "" && mark == " " && p.cfg.SuppressBlankEmpty {
		p.q.Message("\n")
		return
	}
	sep := ""
	if p.cfg.InitialTab {
		sep = "\t"
	}
	line := mark + sep + text
	if colorize != nil {
		line = colorize(line)
	}
	p.q.Message("%s\n", line)
}

// contextRange renders a 1-based inclusive range for context headers
func contextRange(lo, hi int) string {
	if hi-lo <= 1 {
		return fmt.Sprint(hi)
	}
	return fmt.Sprintf("%d,%d", lo+1, hi)
}

// unifiedRange renders the "start,count" form of @@ headers
func unifiedRange(lo, hi int) string {
	n := hi - lo
	switch n {
	case 0:
		return fmt.Sprintf("%d,0", lo)
	case 1:
		return fmt.Sprint(lo + 1)
	default:
		return fmt.Sprintf("%d,%d", lo+1, n)
	}
}

// contextMark classifies line i of the given side within a hunk group:
// '!' when the enclosing hunk changes both sides, '-'/'+' for one-sided
// hunks, ' ' for context.
func contextMark(group []Hunk, i, side int) byte {
	for _, h := range group {
		var start, end int
		if side == 0 {
			start, end = h.Start0, h.End0
		} else {
			start, end = h.Start1, h.End1
		}
		if start <= i && i < end {
			if h.End0 > h.Start0 && h.End1 > h.Start1 {
				return '!'
			}
			if side == 0 {
				return '-'
			}
			return '+'
		}
	}
	return ' '
}

// groupChangesSide reports whether any hunk in the group touches the
// given side; context output omits an unchanged half entirely.
func groupChangesSide(group []Hunk, side int) bool {
	for _, h := range group {
		if side == 0 && h.End0 > h.Start0 {
			return true
		}
		if side == 1 && h.End1 > h.Start1 {
			return true
		}
	}
	return false
}
