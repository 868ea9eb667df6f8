package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// Root markers, checked in each directory from the start upwards.
const (
	ConfigFileName = "mythos.yaml"
	DataDirName    = ".mythos"
)

// ErrRootNotFound is returned by FindRoot when no marker exists up to the
// filesystem root.
var ErrRootNotFound = errors.New("mythos root not found")

// FindRoot walks upwards from startDir to the first directory containing
// mythos.yaml or a .mythos directory and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if exists(filepath.Join(dir, ConfigFileName)) || exists(filepath.Join(dir, DataDirName)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
