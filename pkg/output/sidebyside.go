package output

import (
	"strings"
)

// printSideBySide emits the two-column format (-y). The left column is
// padded to the derived half width; the gutter marker shows how the
// pair of lines relate.
func (p *Printer) printSideBySide(a, b *File, hunks []Hunk) {
	i0, i1 := 0, 0

	emitCommon := func(line []byte) {
		switch {
		case p.cfg.SuppressCommonLines:
		case p.cfg.LeftColumn:
			p.q.Message("%s (\n", p.expandColumn(line))
		default:
			p.q.Message("%s   %s\n", p.expandColumn(line), p.expandTabs(line))
		}
	}

	for _, h := range hunks {
		for ; i0 < h.Start0; i0, i1 = i0+1, i1+1 {
			emitCommon(a.Lines[i0])
		}

		n0, n1 := h.End0-h.Start0, h.End1-h.Start1
		for k := 0; k < max(n0, n1); k++ {
			var left, right string
			haveLeft := k < n0
			haveRight := k < n1
			if haveLeft {
				left = p.expandColumn(a.Lines[h.Start0+k])
			} else {
				left = strings.Repeat(" ", p.cfg.SdiffHalfWidth)
			}
			if haveRight {
				right = p.expandTabs(b.Lines[h.Start1+k])
			}

			switch {
			case haveLeft && haveRight:
				p.q.Message("%s %s %s\n", left, p.pal.header("|"), right)
			case haveLeft:
				p.q.Message("%s %s\n", left, p.pal.del("<"))
			default:
				p.q.Message("%s %s %s\n", left, p.pal.add(">"), right)
			}
		}
		i0, i1 = h.End0, h.End1
	}

	for ; i0 < len(a.Lines); i0, i1 = i0+1, i1+1 {
		emitCommon(a.Lines[i0])
	}
}

// expandColumn expands tabs and pads or truncates to the half width
func (p *Printer) expandColumn(line []byte) string {
	s := p.expandTabs(line)
	w := p.cfg.SdiffHalfWidth
	if len(s) > w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}

// expandTabs rewrites tabs as spaces up to the next tab stop so the
// columns stay aligned regardless of content.
func (p *Printer) expandTabs(line []byte) string {
	if !strings.ContainsRune(string(line), '\t') {
		return string(line)
	}
	var sb strings.Builder
	col := 0
	for _, r := range string(line) {
		if r == '\t' {
			n := p.cfg.TabSize - col%p.cfg.TabSize
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}
