package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/diagnostics"
	"github.com/Hirooo17/ownGRAHs/pkg/driver"
	"github.com/Hirooo17/ownGRAHs/pkg/interpreter"
)

type runOptions struct {
	keywords string
	rev      string
	trace    bool
	dumpEnv  bool
	file     string
}

// parseRunFlags parses the flags shared by run, check and watch. ok is false
// when the command should exit with code.
func parseRunFlags(name string, args []string, withRev, withTrace, withDump bool) (opts runOptions, code int, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&opts.keywords, "keywords", "", "keyword table file (YAML)")
	if withRev {
		fs.StringVar(&opts.rev, "rev", "", "read the program as committed at this git revision")
	}
	if withTrace {
		fs.BoolVar(&opts.trace, "trace", false, "print each executed statement to stderr")
	}
	if withDump {
		fs.BoolVar(&opts.dumpEnv, "dump-env", false, "print the final variables as YAML")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, false
		}
		return opts, 2, false
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintf(os.Stderr, "grah %s requires a source file\n", name)
		return opts, 1, false
	}
	if len(rest) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(rest[1:], " "))
		return opts, 1, false
	}
	opts.file = rest[0]
	return opts, 0, true
}

func loadTable(explicit, searchFrom string) (*config.Table, bool) {
	table, _, err := driver.ResolveKeywordTable(explicit, searchFrom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load keywords: %v\n", err)
		return nil, false
	}
	return table, true
}

func runProgram(args []string) int {
	opts, code, ok := parseRunFlags("run", args, true, true, true)
	if !ok {
		return code
	}
	table, ok := loadTable(opts.keywords, opts.file)
	if !ok {
		return 1
	}
	src, err := driver.LoadSourceAtRevision(opts.file, opts.rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	interp := newCLIInterpreter(table, os.Stdout, os.Stderr, opts.trace)
	res := interp.Interpret(src.Text)
	if opts.dumpEnv {
		if err := driver.WriteEnvironment(os.Stdout, interp.Environment()); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}
	if len(res.Diagnostics) > 0 {
		return 1
	}
	return 0
}

// newCLIInterpreter streams output to out and diagnostics to errOut as the
// program runs.
func newCLIInterpreter(table *config.Table, out, errOut io.Writer, trace bool) *interpreter.Interpreter {
	interp := interpreter.New(table)
	interp.SetOutput(out)
	interp.SetDiagnosticHandler(func(d diagnostics.Diagnostic) {
		fmt.Fprintln(errOut, diagnostics.Describe(d))
	})
	if trace {
		interp.SetTrace(errOut)
	}
	return interp
}

func runCheck(args []string) int {
	opts, code, ok := parseRunFlags("check", args, true, false, false)
	if !ok {
		return code
	}
	table, ok := loadTable(opts.keywords, opts.file)
	if !ok {
		return 1
	}
	src, err := driver.LoadSourceAtRevision(opts.file, opts.rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	diags := interpreter.New(table).Parser().Check(src.Text)
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s: %s\n", src.Name(), diagnostics.Describe(d))
	}
	if len(diags) > 0 {
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s: ok\n", src.Name())
	return 0
}

func runKeywords(args []string) int {
	fs := flag.NewFlagSet("keywords", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	keywords := fs.String("keywords", "", "keyword table file (YAML)")
	asYAML := fs.Bool("yaml", false, "print the table as a keyword file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	searchFrom := "."
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		searchFrom = rest[0]
	default:
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(rest[1:], " "))
		return 1
	}

	table, ok := loadTable(*keywords, searchFrom)
	if !ok {
		return 1
	}
	if *asYAML {
		data, err := driver.MarshalKeywords(table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}
	fmt.Fprint(os.Stdout, table.Documentation())
	return 0
}
