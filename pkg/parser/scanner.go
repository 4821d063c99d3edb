package parser

import (
	"strings"

	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/lexer"
)

type lineRole int

const (
	roleBlank lineRole = iota
	roleNormal
	roleOpen
	roleClose
	roleElse
	roleStray
)

type scanFrame struct {
	isIf    bool
	sawElse bool
}

// blockScanner tracks brace nesting one line at a time. Any line ending in
// "{" opens a frame and a line that is exactly "}" closes one. Else markers
// are neutral when they continue the innermost open if-block; an else that
// directly follows the closing brace of an if-block opens its own frame.
type blockScanner struct {
	table    *config.Table
	stack    []scanFrame
	closedIf bool
}

func newBlockScanner(table *config.Table, frames ...scanFrame) *blockScanner {
	return &blockScanner{table: table, stack: append([]scanFrame(nil), frames...)}
}

func (s *blockScanner) depth() int {
	return len(s.stack)
}

func (s *blockScanner) step(text string) lineRole {
	if text == "" {
		return roleBlank
	}
	if text == "}" {
		if len(s.stack) == 0 {
			s.closedIf = false
			return roleStray
		}
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.closedIf = top.isIf && !top.sawElse
		return roleClose
	}

	tokens := lexer.Tokenize(text)
	opens := strings.HasSuffix(text, "{")
	if isElseLine(tokens, s.table.Else()) {
		followsIf := s.closedIf
		s.closedIf = false
		if tokens[0] == "}" {
			if len(s.stack) == 0 {
				return roleStray
			}
			top := &s.stack[len(s.stack)-1]
			if top.isIf && !top.sawElse {
				top.sawElse = true
				return roleElse
			}
			s.stack = s.stack[:len(s.stack)-1]
			if opens {
				s.stack = append(s.stack, scanFrame{})
			}
			return roleNormal
		}
		if !followsIf && len(s.stack) > 0 {
			top := &s.stack[len(s.stack)-1]
			if top.isIf && !top.sawElse {
				top.sawElse = true
				return roleElse
			}
		}
		if opens {
			s.stack = append(s.stack, scanFrame{})
			return roleOpen
		}
		return roleNormal
	}

	s.closedIf = false
	if opens {
		s.stack = append(s.stack, scanFrame{isIf: s.opensIf(tokens)})
		return roleOpen
	}
	return roleNormal
}

func (s *blockScanner) opensIf(tokens []string) bool {
	entry, _, ok := s.table.Match(tokens)
	return ok && entry.Kind == config.KindIf
}

func isElseLine(tokens []string, elseKeyword string) bool {
	if len(tokens) == 0 {
		return false
	}
	if tokens[0] == elseKeyword {
		return true
	}
	return tokens[0] == "}" && len(tokens) > 1 && tokens[1] == elseKeyword
}

// scanBlock finds the line closing the block opened at lines[open]. For an
// if-block it also reports the first top-level else marker. end is -1 when
// the braces never balance.
func scanBlock(table *config.Table, lines []sourceLine, open int, isIf bool) (end, elseAt int) {
	s := newBlockScanner(table, scanFrame{isIf: isIf})
	elseAt = -1
	for j := open + 1; j < len(lines); j++ {
		before := s.depth()
		role := s.step(lines[j].text)
		switch {
		case role == roleElse && before == 1 && elseAt < 0:
			elseAt = j
		case role == roleClose && s.depth() == 0:
			return j, elseAt
		}
	}
	return -1, elseAt
}

// OpenBlocks reports how many blocks remain unclosed at the end of source.
// Interactive front ends use it to decide whether to keep reading lines.
func (p *Parser) OpenBlocks(source string) int {
	s := newBlockScanner(p.table)
	for _, line := range splitLines(source) {
		s.step(line.text)
	}
	return s.depth()
}
