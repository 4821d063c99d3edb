package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source is program text together with where it was read from.
type Source struct {
	Path     string
	Revision string
	Text     string
}

// Name describes the source for messages: the path, suffixed with @rev when
// the text came from git history.
func (s Source) Name() string {
	if s.Revision == "" {
		return s.Path
	}
	return fmt.Sprintf("%s@%s", s.Path, s.Revision)
}

// LoadSource reads a program from disk.
func LoadSource(path string) (Source, error) {
	if path == "" {
		return Source{}, fmt.Errorf("source: empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("source: read %s: %w", path, err)
	}
	return Source{Path: path, Text: normalizeNewlines(string(data))}, nil
}

// LoadSourceAtRevision reads path as it was committed at rev in the git
// repository that contains it. rev is anything git rev-parse understands
// that go-git supports: a hash, a branch, a tag, HEAD~1.
func LoadSourceAtRevision(path, rev string) (Source, error) {
	if rev == "" {
		return LoadSource(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Source{}, fmt.Errorf("source: open repository for %s: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return Source{}, fmt.Errorf("source: worktree for %s: %w", path, err)
	}
	root := worktree.Filesystem.Root()
	rel, err := repoRelative(root, absPath)
	if err != nil {
		return Source{}, err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return Source{}, fmt.Errorf("source: resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return Source{}, fmt.Errorf("source: load commit %s: %w", hash, err)
	}
	file, err := commit.File(rel)
	if err != nil {
		return Source{}, fmt.Errorf("source: %s at %s: %w", rel, rev, err)
	}
	text, err := file.Contents()
	if err != nil {
		return Source{}, fmt.Errorf("source: read %s at %s: %w", rel, rev, err)
	}
	return Source{Path: path, Revision: rev, Text: normalizeNewlines(text)}, nil
}

func repoRelative(root, absPath string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		absPath = filepath.Join(resolved, filepath.Base(absPath))
	}
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return "", fmt.Errorf("source: %s is not inside %s: %w", absPath, root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("source: %s is outside the repository at %s", absPath, root)
	}
	return filepath.ToSlash(rel), nil
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}
