package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Root is the single repository root directory all served paths are
// resolved against. It is constructed once at startup and never mutated.
type Root struct {
	path string
}

// NewRoot canonicalizes the configured root directory. The directory does
// not need to exist yet; existence is checked per-request by the accessors.
func NewRoot(path string) (*Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	// ルート自体がシンボリックリンクの場合は実体パスに揃えておく。
	// 存在しない場合はそのまま（遅延チェック）。
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	return &Root{path: abs}, nil
}

// Path returns the canonical absolute root directory.
func (r *Root) Path() string {
	return r.path
}

// Resolve joins a client-supplied relative path onto the root and returns
// the validated absolute path. Paths that escape the root after
// canonicalization fail with ErrPathTraversal.
func (r *Root) Resolve(relPath string) (string, error) {
	target := filepath.Clean(filepath.Join(r.path, relPath))

	// パストラバーサル防止。単純な文字列前置判定だと /repo が
	// /repository にも一致してしまうため、区切り文字まで含めて比較する。
	if !r.contains(target) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, relPath)
	}

	// 途中のシンボリックリンクがルート外を指すケースも弾く。対象が
	// まだ存在しなくても、実在する最深の祖先まで実体解決してから判定する
	// （書き込みがリンク経由でルート外へ抜けるのを防ぐ）。
	if !r.contains(resolveExistingPrefix(target)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, relPath)
	}

	return target, nil
}

// resolveExistingPrefix canonicalizes the deepest existing ancestor of path
// and re-joins the not-yet-existing remainder lexically.
func resolveExistingPrefix(path string) string {
	dir := path
	var suffix []string
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append([]string{resolved}, suffix...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// ルートディレクトリまで辿っても解決できなかった
			return path
		}
		suffix = append([]string{filepath.Base(dir)}, suffix...)
		dir = parent
	}
}

// Rel converts a Guard-validated absolute path back to a slash-separated
// path relative to the root, as returned to clients.
func (r *Root) Rel(absPath string) (string, error) {
	rel, err := filepath.Rel(r.path, absPath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %q: %w", absPath, err)
	}
	return filepath.ToSlash(rel), nil
}

func (r *Root) contains(absPath string) bool {
	if absPath == r.path {
		return true
	}
	return strings.HasPrefix(absPath, r.path+string(filepath.Separator))
}
