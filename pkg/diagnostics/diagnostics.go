// Package diagnostics defines the error reports produced while parsing and
// running a program. Diagnostics are values: nothing in the engine panics or
// aborts the process when a statement fails.
package diagnostics

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	SyntaxError Kind = iota
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case RuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Diagnostic describes one detected failure. Line is 1-based; zero means the
// location is unknown.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
}

// Syntax builds a syntax diagnostic for the given line.
func Syntax(line int, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: SyntaxError, Message: fmt.Sprintf(format, args...), Line: line}
}

// Runtime builds a runtime diagnostic for the given line.
func Runtime(line int, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: RuntimeError, Message: fmt.Sprintf(format, args...), Line: line}
}

func (d Diagnostic) Error() string {
	return Describe(d)
}

// Describe renders a diagnostic as "<kind>: line N: <message>".
func Describe(d Diagnostic) string {
	message := strings.TrimSpace(d.Message)
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Kind, d.Line, message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, message)
}

// Error is a located-later failure: the evaluator knows what went wrong but
// not which source line it came from. Handlers attach the line via At.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// At converts the error into a diagnostic for the given line.
func (e *Error) At(line int) Diagnostic {
	return Diagnostic{Kind: e.Kind, Message: e.Message, Line: line}
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FromError converts any error into a diagnostic, keeping the kind of an
// *Error and treating everything else as a runtime failure.
func FromError(err error, line int) Diagnostic {
	if err == nil {
		return Diagnostic{}
	}
	if e, ok := err.(*Error); ok {
		return e.At(line)
	}
	return Diagnostic{Kind: RuntimeError, Message: err.Error(), Line: line}
}
