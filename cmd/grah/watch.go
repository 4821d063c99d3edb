package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/driver"
)

// watchSettle collapses the burst of events an editor produces on save.
const watchSettle = 100 * time.Millisecond

func runWatch(args []string) int {
	opts, code, ok := parseRunFlags("watch", args, false, true, false)
	if !ok {
		return code
	}
	table, ok := loadTable(opts.keywords, opts.file)
	if !ok {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		runWatched(table, opts, os.Stdout, os.Stderr)
	}
	if err := watchFile(ctx, opts.file, rerun); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return 1
	}
	return 0
}

// runWatched runs the file on a fresh interpreter, so every save starts
// from an empty environment.
func runWatched(table *config.Table, opts runOptions, out, errOut io.Writer) {
	fmt.Fprintf(out, "--- %s (%s)\n", opts.file, time.Now().Format("15:04:05"))
	src, err := driver.LoadSource(opts.file)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return
	}
	newCLIInterpreter(table, out, errOut, opts.trace).Interpret(src.Text)
}

// watchFile calls rerun once immediately and again after each change to
// path until ctx is done. The parent directory is watched so that editors
// that save by renaming a temporary file are still seen.
func watchFile(ctx context.Context, path string, rerun func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	rerun()
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			settle = time.After(watchSettle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case <-settle:
			settle = nil
			rerun()
		}
	}
}
