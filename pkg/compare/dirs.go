package compare

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdejongh/diffnorris/pkg/logging"
)

// diffDirs enumerates both directories, pairs entries by name, and
// compares each pair through the engine, folding the child verdicts
// into one by worst-case precedence. A side marked nonexistent (a
// one-sided subdirectory walked under the new-file policies)
// contributes no entries.
func (e *Engine) diffDirs(cmp *Comparison) (Verdict, error) {
	var names [2][]string
	verdict := Success

	for f := 0; f < 2; f++ {
		if cmp.Slot[f].State == StateNonexistent {
			continue
		}
		entries, err := os.ReadDir(cmp.Slot[f].Name)
		if err != nil {
			e.q.ReportError(cmp.Slot[f].Name, err)
			return Trouble, nil
		}
		for _, entry := range entries {
			name := entry.Name()
			if e.excluded(name) {
				continue
			}
			names[f] = append(names[f], name)
		}
		sort.Slice(names[f], func(i, j int) bool {
			return e.nameLess(names[f][i], names[f][j])
		})
	}

	e.log.Debug("comparing directories", logging.Fields{
		"dir0":     cmp.Slot[0].Name,
		"dir1":     cmp.Slot[1].Name,
		"entries0": len(names[0]),
		"entries1": len(names[1]),
	})

	i0, i1 := 0, 0
	for i0 < len(names[0]) || i1 < len(names[1]) {
		var child0, child1 string
		switch {
		case i1 >= len(names[1]):
			child0 = names[0][i0]
			i0++
		case i0 >= len(names[0]):
			child1 = names[1][i1]
			i1++
		default:
			if c := e.nameCompare(names[0][i0], names[1][i1]); c < 0 {
				child0 = names[0][i0]
				i0++
			} else if c > 0 {
				child1 = names[1][i1]
				i1++
			} else {
				child0, child1 = names[0][i0], names[1][i1]
				i0++
				i1++
			}
		}

		// -S skips the leading entries of the top-level directory pair.
		if cmp.Parent == nil && e.cfg.StartingFile != "" {
			name := child0
			if name == "" {
				name = child1
			}
			if e.nameCompare(name, e.cfg.StartingFile) < 0 {
				continue
			}
		}

		v, err := e.compare(cmp, child0, child1)
		if err != nil {
			return Trouble, err
		}
		verdict = verdict.Worse(v)
	}

	return verdict, nil
}

// excluded reports whether a directory entry matches any exclusion
// pattern. Patterns match the entry name only, not the whole path.
func (e *Engine) excluded(name string) bool {
	for _, pattern := range e.cfg.Exclude {
		if pattern == "" {
			continue
		}
		if e.cfg.IgnoreFileNameCase {
			if ok, _ := filepath.Match(strings.ToLower(pattern), strings.ToLower(name)); ok {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// nameCompare orders entry names, folding case when configured.
// Fold-equal names compare equal so the merge walk pairs them.
func (e *Engine) nameCompare(a, b string) int {
	if e.cfg.IgnoreFileNameCase {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
	return strings.Compare(a, b)
}

func (e *Engine) nameLess(a, b string) bool {
	if c := e.nameCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}
