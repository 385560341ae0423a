package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

var _ FileWriter = (*FSWriter)(nil)

// FSWriter writes files beneath the repository root.
type FSWriter struct {
	root *Root
}

func NewFSWriter(root *Root) *FSWriter {
	return &FSWriter{root: root}
}

// WriteFile writes content to relPath inside the repository root, creating
// parent directories as needed. When overwrite is false an existing target
// fails with ErrExists. Returns the root-relative path actually written.
func (w *FSWriter) WriteFile(relPath, content string, overwrite bool) (string, error) {
	absPath, err := w.root.Resolve(relPath)
	if err != nil {
		return "", err
	}

	if !overwrite {
		if _, err := os.Stat(absPath); err == nil {
			return "", fmt.Errorf("%w: %s", ErrExists, relPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create parent directories for %s: %w", relPath, err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", relPath, err)
	}

	return w.root.Rel(absPath)
}
