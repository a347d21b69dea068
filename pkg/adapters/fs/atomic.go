package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TempFilePrefix marks the temporary files of in-progress writes.
	TempFilePrefix = ".oceannotes-tmp-"

	// staleTempAge is how old a temp file must be before Initialize treats
	// it as the leftover of an interrupted write.
	staleTempAge = 10 * time.Minute
)

// writeFileAtomic replaces target with data. The collection is written to a
// temp sibling named after target, synced, then renamed over it; readers see
// either the previous collection or the new one.
func writeFileAtomic(target string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+filepath.Base(target)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", filepath.Base(target), err)
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	renamed = true
	return nil
}

// removeStaleTemps deletes temp files in dir last modified before cutoff
// and returns how many it removed. Fresher ones may belong to a write that
// is still running in another process.
func removeStaleTemps(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), TempFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
