// Package interpreter executes parsed programs against a single shared
// environment and collects their output and diagnostics.
package interpreter

import (
	"fmt"
	"io"

	"github.com/Hirooo17/ownGRAHs/pkg/ast"
	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/diagnostics"
	"github.com/Hirooo17/ownGRAHs/pkg/parser"
	"github.com/Hirooo17/ownGRAHs/pkg/runtime"
)

// Interpreter runs programs written in the syntax of one keyword table.
// Bindings persist across Interpret calls until Reset.
type Interpreter struct {
	table  *config.Table
	parser *parser.Parser
	env    *runtime.Environment

	out          *emitter
	diagnostics  []diagnostics.Diagnostic
	onDiagnostic func(diagnostics.Diagnostic)
	trace        io.Writer
}

// Result is everything one run produced. Output holds completed lines in
// order; a line left open by print is included as its own entry.
type Result struct {
	Output      []string
	Diagnostics []diagnostics.Diagnostic
}

// New returns an interpreter with an empty environment. A nil table selects
// config.DefaultTable().
func New(table *config.Table) *Interpreter {
	if table == nil {
		table = config.DefaultTable()
	}
	return &Interpreter{
		table:  table,
		parser: parser.New(table),
		env:    runtime.NewEnvironment(),
		out:    newEmitter(),
	}
}

// Table returns the keyword table the interpreter was built with.
func (i *Interpreter) Table() *config.Table {
	return i.table
}

// Parser returns the parser bound to the interpreter's table.
func (i *Interpreter) Parser() *parser.Parser {
	return i.parser
}

// Environment exposes the interpreter's variable store.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// SetOutput streams emitted text to w as it is produced, in addition to
// collecting it in Result.Output.
func (i *Interpreter) SetOutput(w io.Writer) {
	i.out.stream = w
}

// SetDiagnosticHandler registers fn to be called for each diagnostic at the
// moment it is recorded.
func (i *Interpreter) SetDiagnosticHandler(fn func(diagnostics.Diagnostic)) {
	i.onDiagnostic = fn
}

// SetTrace writes one line per executed statement to w. Pass nil to disable.
func (i *Interpreter) SetTrace(w io.Writer) {
	i.trace = w
}

// Reset drops every binding.
func (i *Interpreter) Reset() {
	i.env.Clear()
}

// Interpret parses and runs source.
func (i *Interpreter) Interpret(source string) Result {
	return i.Run(i.parser.Parse(source))
}

// Run executes an already parsed program.
func (i *Interpreter) Run(program *ast.Program) Result {
	i.out.begin()
	i.diagnostics = nil
	if program != nil {
		i.executeBody(program.Body)
	}
	i.out.finish()
	return Result{
		Output:      i.out.takeLines(),
		Diagnostics: append([]diagnostics.Diagnostic(nil), i.diagnostics...),
	}
}

func (i *Interpreter) report(diag diagnostics.Diagnostic) {
	i.diagnostics = append(i.diagnostics, diag)
	if i.onDiagnostic != nil {
		i.onDiagnostic(diag)
	}
}

func (i *Interpreter) traceStatement(stmt ast.Statement) {
	if i.trace == nil {
		return
	}
	fmt.Fprintf(i.trace, "trace: line %d: %s\n", stmt.Line(), stmt.NodeType())
}
