// Package platform locates the per-user files diffnorris reads and
// writes outside the compared trees.
package platform

import (
	"os"
	"path/filepath"
)

const appDir = "diffnorris"

// ConfigPath returns the standard location of the defaults file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", appDir, "config.yaml")
}

// DefaultLogPath returns where run logs go when logging is enabled
// without an explicit file.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir+".log")
	}
	return filepath.Join(dir, appDir, "run.log")
}
