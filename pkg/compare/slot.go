package compare

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"
	"time"
)

// SlotState says what the resolver learned about one side of a pair.
// Exactly one state holds at a time; an errored slot is never also open.
type SlotState int

const (
	// StateNonexistent marks a side with no entity (absent name, or an
	// absent file synthesized as empty by the new-file policy)
	StateNonexistent SlotState = iota
	// StateUnopened marks a side that resolved but has not been opened
	StateUnopened
	// StateOpen marks a side with an open file handle
	StateOpen
	// StateError marks a side whose resolution failed
	StateError
)

// Metadata is the stat result the engine dispatches on
type Metadata struct {
	Mode    fs.FileMode
	Size    int64
	ModTime time.Time
	Dev     uint64
	Ino     uint64
}

// Slot is the per-side resolved state of one comparison
type Slot struct {
	// Name is the path used for I/O; it may have been joined with a
	// parent directory or substituted with a sibling's basename.
	Name  string
	State SlotState
	// Err is set only when State is StateError
	Err error
	// File is set only when State is StateOpen
	File *os.File
	// Meta is valid unless State is StateError. For a nonexistent slot
	// the mode is copied from the other side so type dispatch stays
	// defined, and everything else is zero.
	Meta Metadata
}

// IsDir reports whether the slot resolved to a directory
func (s *Slot) IsDir() bool { return s.Meta.Mode.IsDir() }

// IsRegular reports whether the slot resolved to a regular file
func (s *Slot) IsRegular() bool { return s.Meta.Mode.IsRegular() }

// IsSymlink reports whether the slot resolved to a symbolic link
func (s *Slot) IsSymlink() bool { return s.Meta.Mode&fs.ModeSymlink != 0 }

// regularOrSymlink reports whether a slot is content-comparable during
// directory recursion; anything else is a kind mismatch there.
func regularOrSymlink(s *Slot) bool { return s.IsRegular() || s.IsSymlink() }

// Comparison is one entity pair in flight. Parent points at the
// enclosing directory comparison during recursion and is only read, for
// path joining and message formatting; a child never outlives the
// recursive call that built it.
type Comparison struct {
	Parent *Comparison
	Slot   [2]Slot
}

// resolveSlots stats both sides of cmp. Absent names were already
// marked nonexistent by the caller. OS failures are captured in the
// slot, never returned: the dispatch engine decides their severity.
func (e *Engine) resolveSlots(cmp *Comparison) {
	for f := 0; f < 2; f++ {
		s := &cmp.Slot[f]
		if s.State == StateNonexistent {
			continue
		}

		// Identical names resolve once.
		if f == 1 && s.Name == cmp.Slot[0].Name {
			s.State = cmp.Slot[0].State
			s.Err = cmp.Slot[0].Err
			s.File = cmp.Slot[0].File
			s.Meta = cmp.Slot[0].Meta
			continue
		}

		if s.Name == "-" {
			e.resolveStdin(s)
			continue
		}

		meta, err := e.statPath(s.Name)
		if err != nil {
			s.State = StateError
			s.Err = err
			continue
		}
		s.Meta = meta
	}
}

// resolveStdin attaches the standard input stream to a slot. A seekable
// stream reports only the bytes left past the current read position,
// and the modification time becomes "now" since the stream has none.
func (e *Engine) resolveStdin(s *Slot) {
	s.File = os.Stdin
	s.State = StateOpen

	meta, err := fstatMetadata(os.Stdin)
	if err != nil {
		s.State = StateError
		s.File = nil
		s.Err = err
		return
	}

	if meta.Mode.IsRegular() {
		pos, err := os.Stdin.Seek(0, io.SeekCurrent)
		if err != nil {
			s.State = StateError
			s.File = nil
			s.Err = err
			return
		}
		meta.Size = max(0, meta.Size-pos)
	}

	meta.ModTime = time.Now()
	s.Meta = meta
}

// statPath stats a path, not following symlinks when dereferencing is
// disabled.
func (e *Engine) statPath(name string) (Metadata, error) {
	var (
		fi  fs.FileInfo
		err error
	)
	if e.cfg.NoDereference {
		fi, err = os.Lstat(name)
	} else {
		fi, err = os.Stat(name)
	}
	if err != nil {
		return Metadata{}, err
	}
	return metadataFromInfo(fi), nil
}

// applyPlaceholderPolicy re-marks slots as nonexistent under the
// new-file flags: either a permission-less empty regular file (the
// placeholder some patch tools leave behind), or a missing top-level
// operand whose counterpart did resolve. Errors found while walking a
// tree are never hidden this way.
func (e *Engine) applyPlaceholderPolicy(cmp *Comparison) {
	for f := 0; f < 2; f++ {
		if !(e.cfg.NewFile || (f == 0 && e.cfg.UnidirectionalNewFile)) {
			continue
		}

		s := &cmp.Slot[f]
		other := &cmp.Slot[1-f]

		switch s.State {
		case StateUnopened:
			if s.Meta.Mode.IsRegular() && s.Meta.Mode.Perm() == 0 && s.Meta.Size == 0 {
				s.State = StateNonexistent
			}
		case StateError:
			missing := errors.Is(s.Err, fs.ErrNotExist) || errors.Is(s.Err, syscall.EBADF)
			otherResolved := other.State == StateUnopened || other.State == StateOpen
			if missing && cmp.Parent == nil && otherResolved {
				s.State = StateNonexistent
				s.Err = nil
			}
		}
	}

	// A nonexistent slot borrows the other side's type so the dispatch
	// matrix has something to compare against.
	for f := 0; f < 2; f++ {
		if cmp.Slot[f].State == StateNonexistent {
			cmp.Slot[f].Meta = Metadata{Mode: cmp.Slot[1-f].Meta.Mode}
		}
	}
}
