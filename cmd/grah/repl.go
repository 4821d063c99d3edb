package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/Hirooo17/ownGRAHs/pkg/driver"
	"github.com/Hirooo17/ownGRAHs/pkg/interpreter"
)

const (
	promptMain  = "grah> "
	promptCont  = "....> "
	historyFile = ".grah_history"
)

// replSession evaluates chunks against one interpreter, so bindings made by
// earlier input stay visible.
type replSession struct {
	interp *interpreter.Interpreter
	out    io.Writer
	errOut io.Writer
}

func newReplSession(interp *interpreter.Interpreter, out, errOut io.Writer) *replSession {
	return &replSession{interp: interp, out: out, errOut: errOut}
}

// complete reports whether src closes every block it opens.
func (s *replSession) complete(src string) bool {
	return s.interp.Parser().OpenBlocks(src) == 0
}

// handle runs one complete chunk. It returns true when the session should
// end.
func (s *replSession) handle(src string) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, ":") {
		return s.command(strings.ToLower(trimmed))
	}
	s.interp.Interpret(src)
	return false
}

func (s *replSession) command(cmd string) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":env":
		if err := driver.WriteEnvironment(s.out, s.interp.Environment()); err != nil {
			fmt.Fprintln(s.errOut, err)
		}
	case ":reset":
		s.interp.Reset()
		fmt.Fprintln(s.out, "environment cleared")
	case ":keywords":
		fmt.Fprint(s.out, s.interp.Table().Documentation())
	case ":help":
		fmt.Fprintln(s.out, ":env       show variables")
		fmt.Fprintln(s.out, ":reset     clear variables")
		fmt.Fprintln(s.out, ":keywords  show the language reference")
		fmt.Fprintln(s.out, ":quit      leave")
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for a list.\n", cmd)
	}
	return false
}

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	keywords := fs.String("keywords", "", "keyword table file (YAML)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 1
	}
	table, ok := loadTable(*keywords, ".")
	if !ok {
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(os.Stdout, "%s (:help for commands)\n", cliToolVersion)
	session := newReplSession(newCLIInterpreter(table, os.Stdout, os.Stderr, false), os.Stdout, os.Stderr)
	for {
		src, ok := readChunk(ln, session)
		if !ok {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if session.handle(src) {
			return 0
		}
	}
}

// readChunk keeps prompting while the text read so far leaves a block open.
func readChunk(ln *liner.State, session *replSession) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || session.complete(src) {
			return src, true
		}
	}
}
