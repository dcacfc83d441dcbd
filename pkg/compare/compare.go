// Package compare decides what kind of comparison applies to a pair of
// named filesystem entities, performs the minimum work needed to reach
// a verdict, and reports it as identical, different, or trouble.
package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/output"
)

// ContentDiffer is the line-level comparison primitive. It receives a
// pair whose regular files are already open, performs the content
// comparison under the configured ignore policies, and returns the
// verdict. Read failures are its responsibility to report and surface
// as Trouble.
type ContentDiffer interface {
	Diff(cmp *Comparison) Verdict
}

// Engine classifies and dispatches comparison pairs
type Engine struct {
	cfg    *config.Config
	differ ContentDiffer
	q      *output.Queue
	log    logging.Logger
}

// New creates an engine. The config must be finalized; the engine only
// reads it.
func New(cfg *config.Config, differ ContentDiffer, q *output.Queue, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNull()
	}
	return &Engine{cfg: cfg, differ: differ, q: q, log: log}
}

// Compare compares two top-level operands. The error return is
// reserved for conditions that make the rest of the run meaningless;
// per-pair failures come back as a Trouble verdict instead.
func (e *Engine) Compare(name0, name1 string) (Verdict, error) {
	return e.compare(nil, name0, name1)
}

// compare resolves, classifies, and dispatches one pair. An empty name
// means the entity is absent on that side (a child found in only one
// directory). The branch order below is a fixed policy; several of the
// special cases depend on being tried before the more general ones.
func (e *Engine) compare(parent *Comparison, name0, name1 string) (Verdict, error) {
	// An empty name marks a child found in only one directory; the
	// sentinel is produced while walking directories, never for
	// top-level operands. A one-sided child is only comparable under
	// the new-file policies; otherwise it is simply reported.
	if parent != nil && !((name0 != "" && name1 != "") ||
		(e.cfg.UnidirectionalNewFile && name1 != "") ||
		e.cfg.NewFile) {
		name, dir := name0, parent.Slot[0].Name
		if name == "" {
			name, dir = name1, parent.Slot[1].Name
		}
		// See POSIX 1003.1-2001 for this format.
		e.q.Message("Only in %s: %s\n", dir, name)
		return Different, nil
	}

	cmp := &Comparison{Parent: parent}
	cmp.Slot[0].State = StateUnopened
	cmp.Slot[1].State = StateUnopened
	if parent != nil {
		if name0 == "" {
			cmp.Slot[0].State = StateNonexistent
			name0 = name1
		}
		if name1 == "" {
			cmp.Slot[1].State = StateNonexistent
			name1 = name0
		}
	}

	if parent == nil {
		cmp.Slot[0].Name = name0
		cmp.Slot[1].Name = name1
	} else {
		cmp.Slot[0].Name = filepath.Join(parent.Slot[0].Name, name0)
		cmp.Slot[1].Name = filepath.Join(parent.Slot[1].Name, name1)
	}

	e.resolveSlots(cmp)
	e.applyPlaceholderPolicy(cmp)

	verdict := Success
	for f := 0; f < 2; f++ {
		if cmp.Slot[f].State == StateError {
			e.q.ReportError(cmp.Slot[f].Name, cmp.Slot[f].Err)
			verdict = Trouble
		}
	}

	// A top-level directory-vs-file pair retries against the entry in
	// the directory that shares the file's basename.
	if verdict == Success && parent == nil && cmp.Slot[0].IsDir() != cmp.Slot[1].IsDir() {
		dirArg := 0
		if cmp.Slot[1].IsDir() {
			dirArg = 1
		}
		fileName := cmp.Slot[1-dirArg].Name

		if fileName == "-" {
			return Trouble, fmt.Errorf("cannot compare '-' to a directory")
		}

		sibling := e.findDirFile(cmp.Slot[dirArg].Name, filepath.Base(fileName))
		cmp.Slot[dirArg].Name = sibling
		meta, err := e.statPath(sibling)
		if err != nil {
			e.q.ReportError(sibling, err)
			verdict = Trouble
		} else {
			cmp.Slot[dirArg].Meta = meta
		}
	}

	var err error
	switch {
	case verdict != Success:
		// One of the files should exist but does not.

	case cmp.Slot[0].State == StateNonexistent && cmp.Slot[1].State == StateNonexistent:
		// Neither side exists, so there is nothing to compare.

	case e.samePhysicalFile(cmp) && e.cfg.NoDiffMeansNoOutput:
		// Both names reach the same physical file; identical without
		// reading a byte.
		e.log.Debug("same-file short circuit", logging.Fields{"name": cmp.Slot[0].Name})

	case cmp.Slot[0].IsDir() && cmp.Slot[1].IsDir():
		if e.cfg.Style == config.StyleIfdef {
			return Trouble, fmt.Errorf("-D option not supported with directories")
		}
		if parent != nil && !e.cfg.Recursive {
			// See POSIX 1003.1-2001 for this format.
			e.q.Message("Common subdirectories: %s and %s\n",
				cmp.Slot[0].Name, cmp.Slot[1].Name)
		} else {
			verdict, err = e.diffDirs(cmp)
		}

	case cmp.Slot[0].IsDir() || cmp.Slot[1].IsDir() ||
		(parent != nil && !(regularOrSymlink(&cmp.Slot[0]) && regularOrSymlink(&cmp.Slot[1]))):
		verdict, err = e.kindMismatch(cmp, name0)

	case cmp.Slot[0].IsSymlink() || cmp.Slot[1].IsSymlink():
		// Reachable only when symlinks are not dereferenced.
		verdict = e.compareSymlinks(cmp)

	case e.cfg.FilesCanBeTreatedAsBinary &&
		cmp.Slot[0].IsRegular() && cmp.Slot[1].IsRegular() &&
		cmp.Slot[0].Meta.Size != cmp.Slot[1].Meta.Size &&
		cmp.Slot[0].Meta.Size > 0 && cmp.Slot[1].Meta.Size > 0:
		// Sizes alone settle it; neither file is read.
		e.q.Message("Files %s and %s differ\n",
			e.cfg.LabelOrName(0, cmp.Slot[0].Name),
			e.cfg.LabelOrName(1, cmp.Slot[1].Name))
		verdict = Different

	default:
		verdict = e.compareContents(cmp)
	}
	if err != nil {
		return Trouble, err
	}

	if verdict == Success {
		if e.cfg.ReportIdentical && !cmp.Slot[0].IsDir() {
			e.q.Message("Files %s and %s are identical\n",
				e.cfg.LabelOrName(0, cmp.Slot[0].Name),
				e.cfg.LabelOrName(1, cmp.Slot[1].Name))
		}
	} else {
		// Flush so a reader watching the stream sees differences
		// without waiting for the whole run.
		e.q.Flush()
	}

	return verdict, nil
}

// samePhysicalFile reports whether both slots resolved to one file with
// matching attributes.
func (e *Engine) samePhysicalFile(cmp *Comparison) bool {
	s0, s1 := &cmp.Slot[0], &cmp.Slot[1]
	if s0.State == StateNonexistent || s1.State == StateNonexistent {
		return false
	}
	if s0.Meta.Ino == 0 || s0.Meta.Dev != s1.Meta.Dev || s0.Meta.Ino != s1.Meta.Ino {
		return false
	}
	return s0.Meta.Mode == s1.Meta.Mode &&
		s0.Meta.Size == s1.Meta.Size &&
		s0.Meta.ModTime.Equal(s1.Meta.ModTime)
}

// kindMismatch handles pairs where the two sides are not both plain
// files: either only one side exists, or the types disagree.
func (e *Engine) kindMismatch(cmp *Comparison, name0 string) (Verdict, error) {
	s0, s1 := &cmp.Slot[0], &cmp.Slot[1]

	if s0.State == StateNonexistent || s1.State == StateNonexistent {
		// A subdirectory that exists in only one directory is still
		// walked under the new-file policies so its contents get
		// reported individually.
		if (s0.IsDir() || s1.IsDir()) && e.cfg.Recursive &&
			(e.cfg.NewFile ||
				(e.cfg.UnidirectionalNewFile && s0.State == StateNonexistent)) {
			return e.diffDirs(cmp)
		}

		dir := 0
		if s0.State == StateNonexistent {
			dir = 1
		}
		// Only reachable during directory recursion.
		// See POSIX 1003.1-2001 for this format.
		e.q.Message("Only in %s: %s\n", cmp.Parent.Slot[dir].Name, name0)
		return Different, nil
	}

	// See POSIX 1003.1-2001 for this format.
	e.q.Message("File %s is a %s while file %s is a %s\n",
		e.cfg.LabelOrName(0, s0.Name), fileType(s0.Meta.Mode),
		e.cfg.LabelOrName(1, s1.Name), fileType(s1.Meta.Mode))
	return Different, nil
}

// compareSymlinks compares link targets byte for byte. A symlink paired
// with a non-symlink is a kind mismatch.
func (e *Engine) compareSymlinks(cmp *Comparison) Verdict {
	s0, s1 := &cmp.Slot[0], &cmp.Slot[1]

	if !(s0.IsSymlink() && s1.IsSymlink()) {
		e.q.Message("File %s is a %s while file %s is a %s\n",
			e.cfg.LabelOrName(0, s0.Name), fileType(s0.Meta.Mode),
			e.cfg.LabelOrName(1, s1.Name), fileType(s1.Meta.Mode))
		return Different
	}

	var targets [2]string
	for f := 0; f < 2; f++ {
		target, err := os.Readlink(cmp.Slot[f].Name)
		if err != nil {
			e.q.ReportError(cmp.Slot[f].Name, err)
			return Trouble
		}
		targets[f] = target
	}

	if targets[0] != targets[1] {
		e.q.Message("Symbolic links %s and %s differ\n", s0.Name, s1.Name)
		return Different
	}
	return Success
}

// compareContents opens both regular files and hands them to the
// content differ. When both names resolved to the same file one handle
// serves both sides.
func (e *Engine) compareContents(cmp *Comparison) Verdict {
	sameFiles := e.samePhysicalFile(cmp)
	verdict := Success

	if cmp.Slot[0].State == StateUnopened {
		f, err := os.Open(cmp.Slot[0].Name)
		if err != nil {
			e.q.ReportError(cmp.Slot[0].Name, err)
			verdict = Trouble
		} else {
			cmp.Slot[0].File = f
			cmp.Slot[0].State = StateOpen
		}
	}
	if cmp.Slot[1].State == StateUnopened {
		if sameFiles && cmp.Slot[0].State == StateOpen {
			cmp.Slot[1].File = cmp.Slot[0].File
			cmp.Slot[1].State = StateOpen
		} else {
			f, err := os.Open(cmp.Slot[1].Name)
			if err != nil {
				e.q.ReportError(cmp.Slot[1].Name, err)
				verdict = Trouble
			} else {
				cmp.Slot[1].File = f
				cmp.Slot[1].State = StateOpen
			}
		}
	}

	if verdict == Success {
		verdict = e.differ.Diff(cmp)
	}

	for f := 0; f < 2; f++ {
		s := &cmp.Slot[f]
		if s.State != StateOpen || s.File == os.Stdin {
			continue
		}
		if f == 1 && s.File == cmp.Slot[0].File {
			continue
		}
		if err := s.File.Close(); err != nil {
			e.q.ReportError(s.Name, err)
			verdict = Trouble
		}
	}

	return verdict
}

// findDirFile returns the path of the entry under dir matching base,
// scanning for a case-insensitive match when file name case is ignored.
func (e *Engine) findDirFile(dir, base string) string {
	if e.cfg.IgnoreFileNameCase {
		if entries, err := os.ReadDir(dir); err == nil {
			for _, entry := range entries {
				if strings.EqualFold(entry.Name(), base) {
					return filepath.Join(dir, entry.Name())
				}
			}
		}
	}
	return filepath.Join(dir, base)
}

// fileType names a mode for the kind-mismatch message
func fileType(mode os.FileMode) string {
	switch {
	case mode.IsRegular():
		return "regular file"
	case mode.IsDir():
		return "directory"
	case mode&os.ModeSymlink != 0:
		return "symbolic link"
	case mode&os.ModeNamedPipe != 0:
		return "fifo"
	case mode&os.ModeSocket != 0:
		return "socket"
	case mode&os.ModeCharDevice != 0:
		return "character special file"
	case mode&os.ModeDevice != 0:
		return "block special file"
	default:
		return "weird file"
	}
}
