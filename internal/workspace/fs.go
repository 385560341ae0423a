package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	_ FileReader = (*FSReader)(nil)
	_ FileLister = (*FSReader)(nil)
)

// FSReader reads and enumerates files beneath the repository root on the
// local filesystem.
type FSReader struct {
	root *Root

	// maxFileSize is the per-file read limit in bytes. 0 disables the limit.
	maxFileSize int64
}

func NewFSReader(root *Root, maxFileSize int64) *FSReader {
	return &FSReader{root: root, maxFileSize: maxFileSize}
}

// ReadFile returns the content of a regular file as UTF-8 text.
// relPath is resolved against the repository root.
func (r *FSReader) ReadFile(relPath string) (string, error) {
	absPath, err := r.root.Resolve(relPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		// 権限エラー等はnot foundと区別し、境界で汎用サーバーエラーにする
		return "", fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	if !info.Mode().IsRegular() {
		// ディレクトリ等はファイルとして読めない
		return "", fmt.Errorf("%w: %s is not a regular file", ErrNotFound, relPath)
	}
	if r.maxFileSize > 0 && info.Size() > r.maxFileSize {
		return "", fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, relPath, info.Size())
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrDecode, relPath)
	}
	return string(data), nil
}

// ListFiles recursively enumerates regular files at or beneath basePath,
// returning slash-separated paths relative to the repository root.
// ext, when non-empty, is a literal case-sensitive filename suffix filter.
func (r *FSReader) ListFiles(basePath, ext string) ([]string, error) {
	absPath, err := r.root.Resolve(basePath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, basePath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, basePath)
	}

	files := []string{}
	err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ext != "" && !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, err := r.root.Rel(path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", basePath, err)
	}
	return files, nil
}
