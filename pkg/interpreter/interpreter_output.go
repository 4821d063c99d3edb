package interpreter

import (
	"io"
	"strings"
)

// emitter tracks display and print output. open is the "current line is
// unfinished" flag; partial holds what print has written to it so far.
type emitter struct {
	lines      []string
	partial    strings.Builder
	hasPartial bool
	open       bool
	stream     io.Writer
}

func newEmitter() *emitter {
	return &emitter{}
}

func (e *emitter) begin() {
	e.lines = nil
	e.partial.Reset()
	e.hasPartial = false
	e.open = false
}

func (e *emitter) write(s string) {
	if e.stream != nil {
		io.WriteString(e.stream, s)
	}
}

// closeLine ends the open line. Nothing is emitted when the line is empty.
func (e *emitter) closeLine() {
	if e.hasPartial {
		e.lines = append(e.lines, e.partial.String())
		e.write("\n")
		e.partial.Reset()
		e.hasPartial = false
	}
	e.open = false
}

func (e *emitter) display(text string) {
	if e.open {
		e.closeLine()
	}
	e.lines = append(e.lines, text)
	e.write(text + "\n")
}

// displayFailed applies display's effect on the line state without a value.
func (e *emitter) displayFailed() {
	e.closeLine()
}

func (e *emitter) print(text string) {
	e.partial.WriteString(text)
	e.hasPartial = true
	e.open = true
	e.write(text)
}

func (e *emitter) printFailed() {
	e.open = true
}

func (e *emitter) finish() {
	e.closeLine()
}

func (e *emitter) takeLines() []string {
	out := e.lines
	e.lines = nil
	return out
}
