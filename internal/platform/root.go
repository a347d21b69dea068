package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// LocalDirName marks a project-local notebook: a directory of that name in
// the working directory or any parent holds the notes.
const LocalDirName = ".oceannotes"

// ErrRootNotFound is returned by FindRoot when no local notebook exists.
var ErrRootNotFound = errors.New("no local notebook found")

// FindRoot walks upwards from startDir looking for a LocalDirName
// directory and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, LocalDirName)
		if isDir(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

// DefaultDataDir returns the per-user data directory:
// $XDG_DATA_HOME/oceannotes, or ~/.local/share/oceannotes.
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "oceannotes"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "oceannotes"), nil
}

// ResolveDataDir picks the data directory: an explicit path wins, then a
// local notebook found from workDir, then DefaultDataDir.
func ResolveDataDir(explicit, workDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if root, err := FindRoot(workDir); err == nil {
		return root, nil
	}
	return DefaultDataDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
