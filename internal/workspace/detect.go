// Package workspace locates the geoanchor workspace a command runs in.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/example/geoanchor/internal/config"
)

// Detect returns the nearest directory at or above start that holds a
// workspace config. If none does, start itself is returned so that init
// creates the workspace there.
func Detect(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for d := dir; ; {
		if IsWorkspace(d) {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir, nil
		}
		d = parent
	}
}

// DetectFromCwd runs Detect from the current working directory.
func DetectFromCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return Detect(cwd)
}

// IsWorkspace reports whether dir holds a workspace config.
func IsWorkspace(dir string) bool {
	info, err := os.Stat(config.Path(dir))
	return err == nil && !info.IsDir()
}
