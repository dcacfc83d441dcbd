package diffcore

import (
	"bytes"
	"time"

	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/output"
)

// fileLines carries one side's printable lines plus the canonical keys
// the edit-script computation compares. Keys fold away whatever the
// ignore policies say should not count as a change; the printed lines
// keep their original bytes, except for carriage returns stripped
// under --strip-trailing-cr.
type fileLines struct {
	output.File
	keys []string
}

func (d *Differ) loadLines(name string, modTime time.Time, data []byte) *fileLines {
	f := &fileLines{File: output.File{Name: name, ModTime: modTime}}

	if len(data) == 0 {
		return f
	}
	if data[len(data)-1] != '\n' {
		f.NoNewlineAtEOF = true
	}

	raw := bytes.Split(data, []byte{'\n'})
	if !f.NoNewlineAtEOF {
		raw = raw[:len(raw)-1]
	}

	f.Lines = make([][]byte, len(raw))
	f.keys = make([]string, len(raw))
	for i, line := range raw {
		if d.cfg.StripTrailingCR {
			line = bytes.TrimSuffix(line, []byte{'\r'})
		}
		f.Lines[i] = line
		f.keys[i] = d.lineKey(line)
	}

	// An incomplete last line never matches the same text with a
	// newline; the NUL cannot collide with text that survived the
	// binary check.
	if f.NoNewlineAtEOF {
		f.keys[len(f.keys)-1] += "\x00"
	}
	return f
}

// lineKey canonicalizes one line under the active whitespace and case
// policies. Broader whitespace modes subsume the narrower ones, so
// only the strongest applies.
func (d *Differ) lineKey(line []byte) string {
	ws := d.cfg.IgnoreWhitespace
	switch {
	case ws&config.IgnoreAllSpace != 0:
		line = dropAllSpace(line)
	case ws&config.IgnoreSpaceChange != 0:
		line = collapseSpace(line)
	default:
		if ws&config.IgnoreTabExpansion != 0 {
			line = expandTabStops(line, d.cfg.TabSize)
		}
		if ws&config.IgnoreTrailingSpace != 0 {
			line = bytes.TrimRight(line, " \t\v\f\r")
		}
	}
	if d.cfg.IgnoreCase {
		line = bytes.ToLower(line)
	}
	return string(line)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

func dropAllSpace(line []byte) []byte {
	out := make([]byte, 0, len(line))
	for _, c := range line {
		if !isSpace(c) {
			out = append(out, c)
		}
	}
	return out
}

// collapseSpace folds each whitespace run to a single space and drops
// leading and trailing runs entirely.
func collapseSpace(line []byte) []byte {
	out := make([]byte, 0, len(line))
	inRun := false
	for _, c := range line {
		if isSpace(c) {
			inRun = true
			continue
		}
		if inRun && len(out) > 0 {
			out = append(out, ' ')
		}
		inRun = false
		out = append(out, c)
	}
	return out
}

func expandTabStops(line []byte, tabSize int) []byte {
	if tabSize <= 0 {
		tabSize = 1
	}
	out := make([]byte, 0, len(line))
	col := 0
	for _, c := range line {
		if c == '\t' {
			n := tabSize - col%tabSize
			for i := 0; i < n; i++ {
				out = append(out, ' ')
			}
			col += n
			continue
		}
		out = append(out, c)
		col++
	}
	return out
}
