package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// devDirName is the sandbox directory under os.TempDir().
const devDirName = "mythos-dev"

// IsDevRun reports whether the binary was built by `go run` or `go test`.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return isDevExecutable(exe, os.TempDir())
}

func isDevExecutable(exe, tempDir string) bool {
	// go run builds into a temporary work directory.
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath returns the directory the data actually lives in.
// With forceTemp the path is re-rooted under the sandbox directory, unless it
// already lies inside the system temp directory (t.TempDir(), explicit intent).
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && filepath.IsAbs(clean) && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), devDirName, name)
}
