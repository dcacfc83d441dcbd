//go:build !unix

package compare

import (
	"io/fs"
	"os"
)

// metadataFromInfo extracts the fields the engine dispatches on. Hosts
// without stable device/inode identity leave both zero, which disables
// the same-file short circuit but changes nothing else.
func metadataFromInfo(fi fs.FileInfo) Metadata {
	return Metadata{
		Mode:    fi.Mode(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}
}

// fstatMetadata stats an already open descriptor
func fstatMetadata(f *os.File) (Metadata, error) {
	fi, err := f.Stat()
	if err != nil {
		return Metadata{}, err
	}
	return metadataFromInfo(fi), nil
}
