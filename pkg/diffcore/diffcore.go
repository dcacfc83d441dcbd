// Package diffcore is the line-level comparison primitive behind the
// dispatch engine. It reads a pair of open files, applies the
// configured ignore policies, computes a minimal edit script, and hands
// the hunks to the output formatters.
package diffcore

import (
	"bytes"
	"io"
	"time"

	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/output"
)

// Differ implements compare.ContentDiffer
type Differ struct {
	cfg     *config.Config
	q       *output.Queue
	printer *output.Printer
}

// New creates a differ bound to the run's config and output queue
func New(cfg *config.Config, q *output.Queue) *Differ {
	return &Differ{cfg: cfg, q: q, printer: output.NewPrinter(cfg, q)}
}

// Diff compares the contents of an already resolved pair and returns
// the verdict. Read failures are reported here and come back as
// Trouble.
func (d *Differ) Diff(cmp *compare.Comparison) compare.Verdict {
	data0, err := d.readSide(&cmp.Slot[0])
	if err != nil {
		d.q.ReportError(cmp.Slot[0].Name, err)
		return compare.Trouble
	}

	var data1 []byte
	if cmp.Slot[1].File != nil && cmp.Slot[1].File == cmp.Slot[0].File {
		// Both names reached one physical file; one read serves both.
		data1 = data0
	} else {
		data1, err = d.readSide(&cmp.Slot[1])
		if err != nil {
			d.q.ReportError(cmp.Slot[1].Name, err)
			return compare.Trouble
		}
	}

	name0 := d.cfg.LabelOrName(0, cmp.Slot[0].Name)
	name1 := d.cfg.LabelOrName(1, cmp.Slot[1].Name)

	if !d.cfg.Text && (looksBinary(data0) || looksBinary(data1)) {
		if bytes.Equal(data0, data1) {
			return compare.Success
		}
		d.q.Message("Binary files %s and %s differ\n", name0, name1)
		return compare.Different
	}

	// A label replaces the whole header, timestamp included.
	time0, time1 := cmp.Slot[0].Meta.ModTime, cmp.Slot[1].Meta.ModTime
	if d.cfg.Labels[0] != "" {
		time0 = time.Time{}
	}
	if d.cfg.Labels[1] != "" {
		time1 = time.Time{}
	}

	file0 := d.loadLines(name0, time0, data0)
	file1 := d.loadLines(name1, time1, data1)

	hunks := d.computeHunks(file0, file1)
	hunks = d.filterHunks(file0, file1, hunks)

	if len(hunks) == 0 {
		// Styles that echo common lines still need to print them.
		if !d.cfg.NoDiffMeansNoOutput {
			d.printer.PrintHunks(&file0.File, &file1.File, nil)
		}
		return compare.Success
	}

	if d.cfg.Brief {
		d.q.Message("Files %s and %s differ\n", name0, name1)
		return compare.Different
	}

	d.printer.PrintHunks(&file0.File, &file1.File, hunks)
	return compare.Different
}

// readSide returns the content of one slot; a nonexistent slot reads
// as empty.
func (d *Differ) readSide(s *compare.Slot) ([]byte, error) {
	if s.State == compare.StateNonexistent || s.File == nil {
		return nil, nil
	}
	return io.ReadAll(s.File)
}

// looksBinary applies the NUL-byte heuristic
func looksBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

// computeHunks maps both sides to equivalence classes and runs the
// shortest-edit-script computation on the class sequences.
func (d *Differ) computeHunks(f0, f1 *fileLines) []output.Hunk {
	classes := make(map[string]int, len(f0.keys)+len(f1.keys))
	intern := func(keys []string) []int {
		ids := make([]int, len(keys))
		for i, k := range keys {
			id, ok := classes[k]
			if !ok {
				id = len(classes)
				classes[k] = id
			}
			ids[i] = id
		}
		return ids
	}
	return shortestEdit(intern(f0.keys), intern(f1.keys))
}

// filterHunks drops hunks the ignore policies render invisible: hunks
// whose changed lines are all blank under -B, and hunks whose changed
// lines all match an ignore pattern under -I.
func (d *Differ) filterHunks(f0, f1 *fileLines, hunks []output.Hunk) []output.Hunk {
	if !d.cfg.IgnoreBlankLines && !d.cfg.IgnoreRegexps.HasPatterns() {
		return hunks
	}

	kept := hunks[:0]
	for _, h := range hunks {
		if d.hunkIgnorable(f0, f1, h) {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}

func (d *Differ) hunkIgnorable(f0, f1 *fileLines, h output.Hunk) bool {
	blankOK := d.cfg.IgnoreBlankLines
	regexOK := d.cfg.IgnoreRegexps.HasPatterns()

	check := func(lines [][]byte, start, end int) {
		for i := start; i < end; i++ {
			if blankOK && len(bytes.TrimSpace(lines[i])) != 0 {
				blankOK = false
			}
			if regexOK && !d.cfg.IgnoreRegexps.Match(lines[i]) {
				regexOK = false
			}
		}
	}
	check(f0.Lines, h.Start0, h.End0)
	check(f1.Lines, h.Start1, h.End1)

	return blankOK || regexOK
}
