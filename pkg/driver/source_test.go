package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitAll(t *testing.T, repo *git.Repository, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	root := worktree.Filesystem.Root()
	if err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(root, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "grah tests",
			Email: "grah@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestLoadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.grah")
	writeFile(t, path, "grah int x = 1.\r\ndisplay- x.\r\n")
	src, err := LoadSource(path)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if src.Text != "grah int x = 1.\ndisplay- x.\n" {
		t.Fatalf("text = %q", src.Text)
	}
	if src.Name() != path {
		t.Fatalf("name = %q", src.Name())
	}
	if _, err := LoadSource(filepath.Join(t.TempDir(), "missing.grah")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestLoadSourceAtRevision(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	path := filepath.Join(dir, "programs", "hero.grah")
	writeFile(t, path, "display- 1.\n")
	first := commitAll(t, repo, "first")
	writeFile(t, path, "display- 2.\n")
	commitAll(t, repo, "second")
	writeFile(t, path, "display- 3.\n")

	cases := []struct {
		rev  string
		want string
	}{
		{first, "display- 1.\n"},
		{"HEAD", "display- 2.\n"},
		{"HEAD~1", "display- 1.\n"},
		{"", "display- 3.\n"},
	}
	for _, tc := range cases {
		src, err := LoadSourceAtRevision(path, tc.rev)
		if err != nil {
			t.Fatalf("rev %q: %v", tc.rev, err)
		}
		if src.Text != tc.want {
			t.Fatalf("rev %q: text = %q, want %q", tc.rev, src.Text, tc.want)
		}
		if tc.rev != "" && !strings.HasSuffix(src.Name(), "@"+tc.rev) {
			t.Fatalf("rev %q: name = %q", tc.rev, src.Name())
		}
	}
}

func TestLoadSourceAtRevisionErrors(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	tracked := filepath.Join(dir, "tracked.grah")
	writeFile(t, tracked, "display- 1.\n")
	commitAll(t, repo, "init")

	if _, err := LoadSourceAtRevision(tracked, "no-such-branch"); err == nil || !strings.Contains(err.Error(), "resolve revision") {
		t.Fatalf("expected resolve error, got %v", err)
	}
	untracked := filepath.Join(dir, "later.grah")
	writeFile(t, untracked, "display- 2.\n")
	if _, err := LoadSourceAtRevision(untracked, "HEAD"); err == nil {
		t.Fatalf("expected error for a file missing from the commit")
	}
	outside := filepath.Join(t.TempDir(), "loose.grah")
	if err := os.WriteFile(outside, []byte("display- 1.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSourceAtRevision(outside, "HEAD"); err == nil {
		t.Fatalf("expected error outside a repository")
	}
}
