package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Hirooo17/ownGRAHs/pkg/ast"
	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/diagnostics"
	"github.com/Hirooo17/ownGRAHs/pkg/lexer"
)

// rangePattern accepts "range N", "range (N)" and "range(N)" once the header
// tokens after "in" are joined with single spaces.
var rangePattern = regexp.MustCompile(`^range\s*\(?\s*(\d+)\s*\)?$`)

type blockHeader struct {
	variable string
	count    int
	expr     ast.Expression
}

func (p *Parser) validateDeclaration(tokens []string, line int) (diagnostics.Diagnostic, bool) {
	if len(tokens) < 5 || tokens[3] != config.AssignmentKeyword {
		return diagnostics.Syntax(line, "invalid variable declaration"), false
	}
	if !p.table.IsType(tokens[1]) {
		return diagnostics.Syntax(line, "invalid type '%s' for declaration", tokens[1]), false
	}
	if !lexer.IsIdentifier(tokens[2]) {
		return diagnostics.Syntax(line, "invalid variable name '%s'", tokens[2]), false
	}
	return diagnostics.Diagnostic{}, true
}

func validateOutput(entry config.Entry, tokens []string, line int) (diagnostics.Diagnostic, bool) {
	if len(tokens) < 2 {
		return diagnostics.Syntax(line, "invalid %s statement: nothing to output", entry.Kind), false
	}
	return diagnostics.Diagnostic{}, true
}

func validateAssignment(tokens []string, line int) (diagnostics.Diagnostic, bool) {
	if len(tokens) < 3 || tokens[1] != config.AssignmentKeyword {
		return diagnostics.Syntax(line, "invalid assignment"), false
	}
	if !lexer.IsIdentifier(tokens[0]) {
		return diagnostics.Syntax(line, "invalid variable name '%s'", tokens[0]), false
	}
	return diagnostics.Diagnostic{}, true
}

// validateBlockHeader checks the opening line of a for, if or switch block.
// tokens carries the trailing "{" as its own token when the line opens a
// block.
func (p *Parser) validateBlockHeader(entry config.Entry, idx int, tokens []string, line int) (blockHeader, diagnostics.Diagnostic, bool) {
	opens := len(tokens) > 0 && tokens[len(tokens)-1] == "{"
	switch entry.Kind {
	case config.KindFor:
		if len(tokens) < 5 || !opens {
			return blockHeader{}, diagnostics.Syntax(line, "invalid '%s' loop syntax", entry.Keyword), false
		}
		header := tokens[:len(tokens)-1]
		if header[2] != "in" {
			return blockHeader{}, diagnostics.Syntax(line, "invalid '%s' loop syntax: expected 'in' after the loop variable", entry.Keyword), false
		}
		m := rangePattern.FindStringSubmatch(strings.Join(header[3:], " "))
		if m == nil {
			return blockHeader{}, diagnostics.Syntax(line, "invalid '%s' loop syntax: expected 'range N'", entry.Keyword), false
		}
		if !lexer.IsIdentifier(header[1]) {
			return blockHeader{}, diagnostics.Syntax(line, "invalid loop variable '%s'", header[1]), false
		}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			return blockHeader{}, diagnostics.Syntax(line, "invalid loop count '%s'", m[1]), false
		}
		return blockHeader{variable: header[1], count: count}, diagnostics.Diagnostic{}, true
	case config.KindIf:
		if len(tokens) < 4 || !opens {
			return blockHeader{}, diagnostics.Syntax(line, "invalid '%s' statement syntax", entry.Keyword), false
		}
		return blockHeader{expr: ast.Expr(tokens[idx+1 : len(tokens)-1]...)}, diagnostics.Diagnostic{}, true
	case config.KindSwitch:
		if len(tokens) < 2 || !opens {
			return blockHeader{}, diagnostics.Syntax(line, "invalid '%s' statement syntax", entry.Keyword), false
		}
		subject := tokens[idx+1 : len(tokens)-1]
		if len(subject) == 0 {
			return blockHeader{}, diagnostics.Syntax(line, "'%s' needs a value to match", entry.Keyword), false
		}
		return blockHeader{expr: ast.Expr(subject...)}, diagnostics.Diagnostic{}, true
	default:
		return blockHeader{}, diagnostics.Syntax(line, "'%s' does not open a block", entry.Keyword), false
	}
}
