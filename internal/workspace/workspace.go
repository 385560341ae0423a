package workspace

// FileReader defines operations for reading repository files.
type FileReader interface {
	ReadFile(relPath string) (string, error)
}

// FileLister defines recursive enumeration of repository files.
type FileLister interface {
	ListFiles(basePath, ext string) ([]string, error)
}

// FileWriter defines operations for writing repository files.
type FileWriter interface {
	WriteFile(relPath, content string, overwrite bool) (string, error)
}

// DiffProvider defines operations for retrieving pull request diffs.
type DiffProvider interface {
	PRDiff(repo string, prNumber int) (string, error)
}
