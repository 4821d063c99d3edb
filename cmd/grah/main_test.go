package main

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/Hirooo17/ownGRAHs/pkg/config"
)

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()
	return code, string(outBytes), string(errBytes)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func initGitRepo(t *testing.T, dir string) (*git.Repository, string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo, commitAll(t, repo, dir, "init")
}

func commitAll(t *testing.T, repo *git.Repository, dir, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
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
			Name:  "grah CLI",
			Email: "grah@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestVersionAndUsage(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("version: code=%d stdout=%q", code, stdout)
	}
	code, _, stderr := captureCLI(t, nil)
	if code != 1 || !strings.Contains(stderr, "usage:") {
		t.Fatalf("no args: code=%d stderr=%q", code, stderr)
	}
}

func TestRunProgram(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.grah")
	writeFile(t, path, strings.Join([]string{
		"grah int x = 2 + 3 * 4.",
		"display- x.",
		"for i in range(3) {",
		"  print- i.",
		"}",
		"display- \"!\".",
	}, "\n"))

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 0 {
		t.Fatalf("exit code %d, stderr=%q", code, stderr)
	}
	if stdout != "14\n012\n!\n" {
		t.Fatalf("stdout = %q", stdout)
	}

	code, stdout, _ = captureCLI(t, []string{"--dump-env", path})
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasSuffix(stdout, "i: 2\nx: 14\n") {
		t.Fatalf("dump-env output = %q", stdout)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.grah")
	writeFile(t, path, "display- 5 / 0 .\ndisplay- 1.\nnonsense.\n")
	code, stdout, stderr := captureCLI(t, []string{"run", "--trace", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if stdout != "1\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	for _, want := range []string{
		"runtime error: line 1: division by zero",
		"syntax error: line 3: unknown statement 'nonsense'",
		"trace: line 2: Display",
	} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestRunUsesKeywordFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "grah.yml"), "declare: let\ndisplay: [show, say]\n")
	program := filepath.Join(dir, "nested", "main.grah")
	writeFile(t, program, "let int n = 4.\nshow n * 2.\nsay \"done\".\n")

	code, stdout, stderr := captureCLI(t, []string{"run", program})
	if code != 0 || stdout != "8\ndone\n" {
		t.Fatalf("discovered keywords: code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}

	alt := filepath.Join(t.TempDir(), "alt.yml")
	writeFile(t, alt, "declare: var\ndisplay: out\n")
	other := filepath.Join(t.TempDir(), "other.grah")
	writeFile(t, other, "var int n = 1.\nout n.\n")
	code, stdout, stderr = captureCLI(t, []string{"run", "--keywords", alt, other})
	if code != 0 || stdout != "1\n" {
		t.Fatalf("explicit keywords: code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}

	bad := filepath.Join(t.TempDir(), "bad.yml")
	writeFile(t, bad, "print: in\n")
	code, _, stderr = captureCLI(t, []string{"run", "--keywords", bad, other})
	if code != 1 || !strings.Contains(stderr, "failed to load keywords") {
		t.Fatalf("bad keywords: code=%d stderr=%q", code, stderr)
	}
}

func TestRunAtRevision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.grah")
	writeFile(t, path, "display- \"old\".\n")
	repo, first := initGitRepo(t, dir)
	writeFile(t, path, "display- \"new\".\n")
	commitAll(t, repo, dir, "update")

	code, stdout, stderr := captureCLI(t, []string{"run", "--rev", first, path})
	if code != 0 || stdout != "old\n" {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
	code, stdout, _ = captureCLI(t, []string{"run", "--rev", "HEAD", path})
	if code != 0 || stdout != "new\n" {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}
}

func TestRunArgumentErrors(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 || !strings.Contains(stderr, "requires a source file") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"run", "a.grah", "b.grah"})
	if code != 1 || !strings.Contains(stderr, "unexpected arguments: b.grah") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	code, _, _ = captureCLI(t, []string{"run", "--no-such-flag", "a.grah"})
	if code != 2 {
		t.Fatalf("expected exit code 2 for an unknown flag, got %d", code)
	}
	code, _, stderr = captureCLI(t, []string{"run", filepath.Join(t.TempDir(), "missing.grah")})
	if code != 1 || !strings.Contains(stderr, "source: read") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.grah")
	writeFile(t, good, "grah int x = 1.\nif x > 1 {\ndisplay- x.\n}\n")
	code, stdout, _ := captureCLI(t, []string{"check", good})
	if code != 0 || !strings.HasSuffix(stdout, "good.grah: ok\n") {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}

	bad := filepath.Join(dir, "bad.grah")
	writeFile(t, bad, "if 1 > 2 {\nnot valid.\n}\ndisplay- 1\n")
	code, stdout, stderr := captureCLI(t, []string{"check", bad})
	if code != 1 || stdout != "" {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}
	if !strings.Contains(stderr, "line 2: unknown statement") || !strings.Contains(stderr, "line 4: statements must end with a period") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestKeywordsCommand(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"keywords", t.TempDir()})
	if code != 0 || !strings.Contains(stdout, "grah int <name> = <expression>.") {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "grah.yml"), "for: loop\n")
	code, stdout, _ = captureCLI(t, []string{"keywords", "--yaml", dir})
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	for _, want := range []string{"for: loop\n", "declare:\n  - grah\n  - hero\n"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, stdout)
		}
	}
}

func TestReplSession(t *testing.T) {
	var out, errOut bytes.Buffer
	interp := newCLIInterpreter(config.DefaultTable(), &out, &errOut, false)
	session := newReplSession(interp, &out, &errOut)

	if session.complete("for i in range 2 {") {
		t.Fatalf("an open block should not be complete")
	}
	if !session.complete("for i in range 2 {\ndisplay- i.\n}") {
		t.Fatalf("a closed block should be complete")
	}

	steps := []string{
		"grah int x = 1.",
		"for i in range 2 {\nx = x + i.\n}",
		"display- x.",
		":env",
		"display- missing.",
		":reset",
		":env",
		":bogus",
	}
	for _, step := range steps {
		if session.handle(step) {
			t.Fatalf("%q ended the session", step)
		}
	}
	if !session.handle(":quit") {
		t.Fatalf(":quit should end the session")
	}

	want := "2\ni: 1\nx: 2\nenvironment cleared\n{}\nunknown command :bogus. Type :help for a list.\n"
	if out.String() != want {
		t.Fatalf("stdout = %q, want %q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "variable 'missing' is not defined") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestWatchRerunsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.grah")
	writeFile(t, path, "display- 1.\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() { runs <- struct{}{} })
	}()

	waitRun := func(label string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s run", label)
		}
	}
	waitRun("initial")
	writeFile(t, path, "display- 2.\n")
	waitRun("changed")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watchFile: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watchFile did not stop")
	}
}

func TestRunWatchedUsesFreshEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.grah")
	writeFile(t, path, "grah int x = 1.\ndisplay- x.\n")
	var out, errOut bytes.Buffer
	opts := runOptions{file: path}
	runWatched(config.DefaultTable(), opts, &out, &errOut)
	runWatched(config.DefaultTable(), opts, &out, &errOut)
	if strings.Count(out.String(), "\n1\n") != 2 || errOut.Len() != 0 {
		t.Fatalf("stdout=%q stderr=%q", out.String(), errOut.String())
	}
}

func TestExamplePrograms(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{
			path: filepath.Join("..", "..", "examples", "hero.grah"),
			want: "Grah has power\n14\n0 1 2 \nlevels done\nstrong\nrank two\n",
		},
		{
			path: filepath.Join("..", "..", "examples", "pirate", "treasure.grah"),
			want: "012\n days at sea\nFlint is rich\nthree chests\n",
		},
	}
	for _, tc := range cases {
		code, stdout, stderr := captureCLI(t, []string{"run", tc.path})
		if code != 0 {
			t.Fatalf("%s: exit code %d, stderr=%q", tc.path, code, stderr)
		}
		if stdout != tc.want {
			t.Fatalf("%s: stdout = %q, want %q", tc.path, stdout, tc.want)
		}
	}
}
