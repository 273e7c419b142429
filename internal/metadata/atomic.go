package metadata

import (
	"fmt"
	"os"
	"path/filepath"
)

// tmpPrefix marks in-flight temp files so directory scans skip them.
const tmpPrefix = ".tmp-"

// WriteFileAtomic writes data to path via a temp file in the same
// directory followed by a rename. The temp file is created with 0600
// before any content is written, so the contents never exist on disk with
// looser permissions. Shared with the alias table, which lives in the
// same directory and follows the same write discipline.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to secure temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
