package workspace

import "fmt"

var _ DiffProvider = (*GitDiff)(nil)

// GitDiff is the pull request diff provider for a local git repository.
// PR diff retrieval is not implemented yet; the type exists so the
// tool surface stays stable while the feature lands.
type GitDiff struct {
	root *Root
}

func NewGitDiff(root *Root) *GitDiff {
	return &GitDiff{root: root}
}

// PRDiff always fails with ErrNotImplemented. It must not touch the
// filesystem so that the stub stays observably side-effect free.
func (g *GitDiff) PRDiff(repo string, prNumber int) (string, error) {
	return "", fmt.Errorf("%w: pr-diff for %s#%d", ErrNotImplemented, repo, prNumber)
}
