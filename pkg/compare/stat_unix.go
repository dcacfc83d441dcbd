//go:build unix

package compare

import (
	"io/fs"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// metadataFromInfo extracts the fields the engine dispatches on,
// including the device and inode that identify a physical file.
func metadataFromInfo(fi fs.FileInfo) Metadata {
	m := Metadata{
		Mode:    fi.Mode(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		m.Dev = uint64(st.Dev)
		m.Ino = uint64(st.Ino)
	}
	return m
}

// fstatMetadata stats an already open descriptor
func fstatMetadata(f *os.File) (Metadata, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return Metadata{}, &fs.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return Metadata{
		Mode:    modeFromUnix(st.Mode),
		Size:    st.Size,
		ModTime: time.Unix(st.Mtim.Unix()),
		Dev:     uint64(st.Dev),
		Ino:     uint64(st.Ino),
	}, nil
}

// modeFromUnix converts a raw st_mode to the fs.FileMode the rest of
// the engine speaks.
func modeFromUnix(mode uint32) fs.FileMode {
	m := fs.FileMode(mode & 0o777)
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		m |= fs.ModeDir
	case unix.S_IFLNK:
		m |= fs.ModeSymlink
	case unix.S_IFIFO:
		m |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		m |= fs.ModeSocket
	case unix.S_IFBLK:
		m |= fs.ModeDevice
	case unix.S_IFCHR:
		m |= fs.ModeDevice | fs.ModeCharDevice
	}
	return m
}
