package output

// printEd emits an ed script (-e). Hunks are printed last first so the
// line numbers of earlier commands stay valid while the script runs.
func (p *Printer) printEd(a, b *File, hunks []Hunk) {
	for i := len(hunks) - 1; i >= 0; i-- {
		h := hunks[i]
		letter := edLetter(h)

		p.q.Message("%s%c\n", normalRange(h.Start0, h.End0), letter)
		if letter != 'd' {
			p.edText(b, h.Start1, h.End1)
		}
	}
}

// printForwardEd is like ed output but in forward order, with the
// command letter first. The result is not executable by ed; it exists
// for programs that read diffs sequentially.
func (p *Printer) printForwardEd(a, b *File, hunks []Hunk) {
	for _, h := range hunks {
		letter := edLetter(h)

		if h.End0-h.Start0 > 1 {
			p.q.Message("%c%d %d\n", letter, h.Start0+1, h.End0)
		} else {
			p.q.Message("%c%s\n", letter, normalRange(h.Start0, h.End0))
		}
		if letter != 'd' {
			p.edText(b, h.Start1, h.End1)
		}
	}
}

// edText prints replacement lines terminated by a lone period. A line
// consisting of a single "." cannot appear literally in ed input, so it
// is emitted via the classic substitute trick.
func (p *Printer) edText(b *File, start, end int) {
	for i := start; i < end; i++ {
		line := string(b.Lines[i])
		if line == "." {
			p.q.Message("..\n.\ns/.//\na\n")
			continue
		}
		p.q.Message("%s\n", line)
	}
	p.q.Message(".\n")
}

// printRCS emits the RCS format (-n): delete and add commands with
// counts, never context.
func (p *Printer) printRCS(a, b *File, hunks []Hunk) {
	for _, h := range hunks {
		if n := h.End0 - h.Start0; n > 0 {
			p.q.Message("d%d %d\n", h.Start0+1, n)
		}
		if n := h.End1 - h.Start1; n > 0 {
			p.q.Message("a%d %d\n", h.End0, n)
			for i := h.Start1; i < h.End1; i++ {
				p.q.Message("%s\n", string(b.Lines[i]))
			}
		}
	}
}

func edLetter(h Hunk) byte {
	switch {
	case h.Start1 == h.End1:
		return 'd'
	case h.Start0 == h.End0:
		return 'a'
	default:
		return 'c'
	}
}

// printIfdef emits merged output bracketed by preprocessor guards (-D)
func (p *Printer) printIfdef(a, b *File, hunks []Hunk) {
	name := p.cfg.IfdefName
	i0, i1 := 0, 0

	for _, h := range hunks {
		for ; i0 < h.Start0; i0, i1 = i0+1, i1+1 {
			p.q.Message("%s\n", string(a.Lines[i0]))
		}

		oldLines := h.End0 > h.Start0
		newLines := h.End1 > h.Start1
		switch {
		case oldLines && newLines:
			p.q.Message("#ifndef %s\n", name)
			for ; i0 < h.End0; i0++ {
				p.q.Message("%s\n", string(a.Lines[i0]))
			}
			p.q.Message("#else /* %s */\n", name)
			for ; i1 < h.End1; i1++ {
				p.q.Message("%s\n", string(b.Lines[i1]))
			}
			p.q.Message("#endif /* %s */\n", name)
		case oldLines:
			p.q.Message("#ifndef %s\n", name)
			for ; i0 < h.End0; i0++ {
				p.q.Message("%s\n", string(a.Lines[i0]))
			}
			p.q.Message("#endif /* ! %s */\n", name)
		case newLines:
			p.q.Message("#ifdef %s\n", name)
			for ; i1 < h.End1; i1++ {
				p.q.Message("%s\n", string(b.Lines[i1]))
			}
			p.q.Message("#endif /* %s */\n", name)
		}
	}

	for ; i0 < len(a.Lines); i0++ {
		p.q.Message("%s\n", string(a.Lines[i0]))
	}
}
