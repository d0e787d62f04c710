// Package sink writes final output, replacing files atomically.
package sink

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

const defaultMode fs.FileMode = 0o644

// Atomic replaces files by writing a temporary file in the same directory and
// renaming it over the target. The original permissions are kept.
type Atomic struct{}

// Replace atomically replaces path with data.
func (Atomic) Replace(path string, data []byte) error {
	mode := defaultMode

	info, err := os.Stat(path)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	pending, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return fmt.Errorf("create temporary file for %s: %w", path, err)
	}
	defer pending.Cleanup() //nolint:errcheck

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", pending.Name(), err)
	}

	if err := pending.Chmod(mode); err != nil {
		return err
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}

// Stream writes data to w in one call.
func Stream(w io.Writer, data []byte) error {
	_, err := w.Write(data)

	return err
}
