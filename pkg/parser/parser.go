// Package parser turns program text into a block-structured statement tree.
// Dispatch, validation and brace matching all happen here, once, before
// anything executes; statements that fail become ast.Invalid nodes so their
// diagnostics surface at run time in program order.
package parser

import (
	"strings"

	"github.com/Hirooo17/ownGRAHs/pkg/ast"
	"github.com/Hirooo17/ownGRAHs/pkg/config"
	"github.com/Hirooo17/ownGRAHs/pkg/diagnostics"
	"github.com/Hirooo17/ownGRAHs/pkg/lexer"
)

// Parser is bound to one keyword table.
type Parser struct {
	table *config.Table
}

// New returns a parser for table.
func New(table *config.Table) *Parser {
	return &Parser{table: table}
}

type sourceLine struct {
	number int
	text   string
}

func splitLines(source string) []sourceLine {
	raw := strings.Split(source, "\n")
	lines := make([]sourceLine, len(raw))
	for i, text := range raw {
		lines[i] = sourceLine{number: i + 1, text: strings.TrimSpace(text)}
	}
	return lines
}

// Parse builds the statement tree for source. It never fails: problems are
// embedded in the tree as ast.Invalid statements.
func (p *Parser) Parse(source string) *ast.Program {
	return &ast.Program{Body: p.parseBody(splitLines(source))}
}

// Check parses source and returns every syntax diagnostic in the tree,
// including those in branches that would not run.
func (p *Parser) Check(source string) []diagnostics.Diagnostic {
	return Diagnostics(p.Parse(source))
}

// Diagnostics collects the diagnostics of every ast.Invalid in program.
func Diagnostics(program *ast.Program) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	ast.Walk(program.Body, func(stmt ast.Statement) {
		if inv, ok := stmt.(*ast.Invalid); ok {
			out = append(out, inv.Diagnostic)
		}
	})
	return out
}

func (p *Parser) parseBody(lines []sourceLine) []ast.Statement {
	var body []ast.Statement
	for i := 0; i < len(lines); {
		if lines[i].text == "" {
			i++
			continue
		}
		stmt, next := p.parseStatement(lines, i)
		if stmt != nil {
			body = append(body, stmt)
		}
		if next <= i {
			next = i + 1
		}
		i = next
	}
	return body
}

func terminated(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "{") || text == "}"
}

// statementTokens strips the terminator and tokenizes. Block lines keep a
// trailing "{" token even when it was written against the last word.
func statementTokens(text string) (statement string, tokens []string) {
	switch {
	case strings.HasSuffix(text, "."):
		statement = strings.TrimSpace(strings.TrimSuffix(text, "."))
		return statement, lexer.Tokenize(statement)
	case strings.HasSuffix(text, "{"):
		header := strings.TrimSpace(strings.TrimSuffix(text, "{"))
		return text, append(lexer.Tokenize(header), "{")
	default:
		return text, lexer.Tokenize(text)
	}
}

func (p *Parser) parseStatement(lines []sourceLine, i int) (ast.Statement, int) {
	line := lines[i]
	if !terminated(line.text) {
		diag := diagnostics.Syntax(line.number, "statements must end with a period: %q", line.text)
		return ast.NewInvalid(diag, true), i + 1
	}
	statement, tokens := statementTokens(line.text)

	if isElseLine(tokens, p.table.Else()) {
		return p.strayElse(lines, i)
	}

	entry, idx, ok := p.table.Match(tokens)
	if !ok && len(tokens) > 0 && p.table.IsType(tokens[0]) {
		// "int y = 1." declares with the type keyword alone.
		entry, idx, ok = config.Entry{Keyword: tokens[0], Kind: config.KindDeclaration}, 0, true
		tokens = append([]string{tokens[0]}, tokens...)
	}
	if !ok {
		return ast.NewInvalid(diagnostics.Syntax(line.number, "unknown statement '%s'", statement), false), i + 1
	}

	if entry.Kind.IsBlock() {
		return p.parseBlockStatement(entry, idx, tokens, lines, i)
	}

	stmt, diag, ok := p.simpleStatement(entry, idx, tokens, line.number)
	if !ok {
		return ast.NewInvalid(diag, false), i + 1
	}
	return stmt, i + 1
}

func (p *Parser) simpleStatement(entry config.Entry, idx int, tokens []string, line int) (ast.Statement, diagnostics.Diagnostic, bool) {
	switch entry.Kind {
	case config.KindDeclaration:
		if diag, ok := p.validateDeclaration(tokens, line); !ok {
			return nil, diag, false
		}
		typ := ast.TypeInt
		if tokens[1] == p.table.StringType() {
			typ = ast.TypeString
		}
		return ast.NewDeclaration(line, entry.Keyword, typ, tokens[2], ast.Expr(tokens[4:]...)), diagnostics.Diagnostic{}, true
	case config.KindDisplay, config.KindPrint:
		if diag, ok := validateOutput(entry, tokens, line); !ok {
			return nil, diag, false
		}
		value := ast.Expr(tokens[idx+1:]...)
		if entry.Kind == config.KindPrint {
			return ast.NewPrint(line, value), diagnostics.Diagnostic{}, true
		}
		return ast.NewDisplay(line, value), diagnostics.Diagnostic{}, true
	case config.KindAssignment:
		if diag, ok := validateAssignment(tokens, line); !ok {
			return nil, diag, false
		}
		return ast.NewAssignment(line, tokens[0], ast.Expr(tokens[2:]...)), diagnostics.Diagnostic{}, true
	default:
		return nil, diagnostics.Syntax(line, "unsupported statement kind %s", entry.Kind), false
	}
}

func (p *Parser) parseBlockStatement(entry config.Entry, idx int, tokens []string, lines []sourceLine, i int) (ast.Statement, int) {
	line := lines[i]
	header, diag, valid := p.validateBlockHeader(entry, idx, tokens, line.number)
	if !strings.HasSuffix(line.text, "{") {
		return ast.NewInvalid(diag, false), i + 1
	}

	end, elseAt := scanBlock(p.table, lines, i, entry.Kind == config.KindIf)
	if !valid {
		if end < 0 {
			return ast.NewInvalid(diag, false), i + 1
		}
		return ast.NewInvalid(diag, false), end + 1
	}
	if end < 0 {
		diag := diagnostics.Syntax(line.number, "mismatched braces in '%s' block", entry.Keyword)
		return ast.NewInvalid(diag, false), i + 1
	}

	inner := lines[i+1 : end]
	switch entry.Kind {
	case config.KindFor:
		return ast.NewForLoop(line.number, header.variable, header.count, p.parseBody(inner)), end + 1
	case config.KindIf:
		return p.parseIf(header, lines, i, end, elseAt)
	default:
		cases, def := p.parseCases(inner)
		return ast.NewSwitch(line.number, header.expr, cases, def), end + 1
	}
}

func (p *Parser) parseIf(header blockHeader, lines []sourceLine, open, end, elseAt int) (ast.Statement, int) {
	number := lines[open].number
	if elseAt >= 0 {
		then := p.parseBody(lines[open+1 : elseAt])
		els := p.parseBody(lines[elseAt+1 : end])
		return ast.NewIf(number, header.expr, then, els, true), end + 1
	}

	then := p.parseBody(lines[open+1 : end])
	next := end + 1
	for next < len(lines) && lines[next].text == "" {
		next++
	}
	if next < len(lines) && strings.HasSuffix(lines[next].text, "{") {
		_, tokens := statementTokens(lines[next].text)
		if len(tokens) > 0 && tokens[0] == p.table.Else() {
			if elseEnd, _ := scanBlock(p.table, lines, next, false); elseEnd >= 0 {
				els := p.parseBody(lines[next+1 : elseEnd])
				return ast.NewIf(number, header.expr, then, els, true), elseEnd + 1
			}
		}
	}
	return ast.NewIf(number, header.expr, then, nil, false), end + 1
}

// strayElse reports an else marker that no if-block claimed and skips the
// block it opens when its braces balance.
func (p *Parser) strayElse(lines []sourceLine, i int) (ast.Statement, int) {
	line := lines[i]
	diag := diagnostics.Syntax(line.number, "'%s' without a preceding '%s' block", p.table.Else(), p.table.If())
	if strings.HasSuffix(line.text, "{") && !strings.HasPrefix(line.text, "}") {
		if end, _ := scanBlock(p.table, lines, i, false); end >= 0 {
			return ast.NewInvalid(diag, false), end + 1
		}
	}
	return ast.NewInvalid(diag, false), i + 1
}

// parseCases splits a switch body into buckets. Markers only count at the
// top level of the body; lines before the first marker are dropped.
func (p *Parser) parseCases(lines []sourceLine) ([]*ast.CaseClause, *ast.CaseClause) {
	type bucket struct {
		clause *ast.CaseClause
		lines  []sourceLine
	}
	var buckets []*bucket
	var current *bucket
	var def *bucket

	s := newBlockScanner(p.table)
	for _, line := range lines {
		if s.depth() == 0 && line.text != "" {
			tokens := lexer.Tokenize(line.text)
			switch {
			case strings.TrimSuffix(tokens[0], ":") == p.table.Case():
				current = &bucket{clause: &ast.CaseClause{Line: line.number, Key: caseKey(tokens[1:])}}
				buckets = append(buckets, current)
				continue
			case strings.TrimSuffix(tokens[0], ":") == p.table.Default():
				current = &bucket{clause: &ast.CaseClause{Line: line.number}}
				if def == nil {
					def = current
				}
				continue
			}
		}
		s.step(line.text)
		if current != nil {
			current.lines = append(current.lines, line)
		}
	}

	var cases []*ast.CaseClause
	for _, b := range buckets {
		b.clause.Body = p.parseBody(b.lines)
		cases = append(cases, b.clause)
	}
	var defClause *ast.CaseClause
	if def != nil {
		def.clause.Body = p.parseBody(def.lines)
		defClause = def.clause
	}
	return cases, defClause
}

func caseKey(tokens []string) string {
	key := strings.TrimSpace(strings.Join(tokens, " "))
	key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
	return lexer.Unquote(key)
}
