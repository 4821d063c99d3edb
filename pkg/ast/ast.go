// Package ast defines the block-structured statement tree produced by the
// parser. Expressions stay as token sequences: the evaluator works on tokens
// directly.
package ast

import "github.com/Hirooo17/ownGRAHs/pkg/diagnostics"

type NodeType string

const (
	NodeDeclaration NodeType = "Declaration"
	NodeAssignment  NodeType = "Assignment"
	NodeDisplay     NodeType = "Display"
	NodePrint       NodeType = "Print"
	NodeForLoop     NodeType = "ForLoop"
	NodeIf          NodeType = "If"
	NodeSwitch      NodeType = "Switch"
	NodeInvalid     NodeType = "Invalid"
)

// Statement is any executable node. Line is the 1-based source line.
type Statement interface {
	NodeType() NodeType
	Line() int
	statementNode()
}

type nodeImpl struct {
	Type NodeType
	Pos  int
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.Pos }
func (nodeImpl) statementNode()       {}

// Expression is an unevaluated token sequence.
type Expression struct {
	Tokens []string
}

func Expr(tokens ...string) Expression {
	return Expression{Tokens: append([]string(nil), tokens...)}
}

// Program is the root statement list.
type Program struct {
	Body []Statement
}

// TypeKind is the declared type of a declaration.
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeString
)

type Declaration struct {
	nodeImpl
	Keyword string
	Type    TypeKind
	Name    string
	Value   Expression
}

func NewDeclaration(line int, keyword string, typ TypeKind, name string, value Expression) *Declaration {
	return &Declaration{nodeImpl: nodeImpl{NodeDeclaration, line}, Keyword: keyword, Type: typ, Name: name, Value: value}
}

type Assignment struct {
	nodeImpl
	Name  string
	Value Expression
}

func NewAssignment(line int, name string, value Expression) *Assignment {
	return &Assignment{nodeImpl: nodeImpl{NodeAssignment, line}, Name: name, Value: value}
}

type Display struct {
	nodeImpl
	Value Expression
}

func NewDisplay(line int, value Expression) *Display {
	return &Display{nodeImpl: nodeImpl{NodeDisplay, line}, Value: value}
}

type Print struct {
	nodeImpl
	Value Expression
}

func NewPrint(line int, value Expression) *Print {
	return &Print{nodeImpl: nodeImpl{NodePrint, line}, Value: value}
}

// ForLoop iterates Variable over 0..Count-1.
type ForLoop struct {
	nodeImpl
	Variable string
	Count    int
	Body     []Statement
}

func NewForLoop(line int, variable string, count int, body []Statement) *ForLoop {
	return &ForLoop{nodeImpl: nodeImpl{NodeForLoop, line}, Variable: variable, Count: count, Body: body}
}

// If holds both branches; Else is nil when the source has no else marker.
type If struct {
	nodeImpl
	Condition Expression
	Then      []Statement
	Else      []Statement
	HasElse   bool
}

func NewIf(line int, condition Expression, then, els []Statement, hasElse bool) *If {
	return &If{nodeImpl: nodeImpl{NodeIf, line}, Condition: condition, Then: then, Else: els, HasElse: hasElse}
}

// CaseClause is one bucket of a switch.
type CaseClause struct {
	Line int
	Key  string
	Body []Statement
}

type Switch struct {
	nodeImpl
	Subject Expression
	Cases   []*CaseClause
	Default *CaseClause
}

func NewSwitch(line int, subject Expression, cases []*CaseClause, def *CaseClause) *Switch {
	return &Switch{nodeImpl: nodeImpl{NodeSwitch, line}, Subject: subject, Cases: cases, Default: def}
}

// Invalid stands in for a statement that failed to parse. The diagnostic is
// reported each time execution reaches it. Abort stops the enclosing
// statement list.
type Invalid struct {
	nodeImpl
	Diagnostic diagnostics.Diagnostic
	Abort      bool
}

func NewInvalid(diag diagnostics.Diagnostic, abort bool) *Invalid {
	return &Invalid{nodeImpl: nodeImpl{NodeInvalid, diag.Line}, Diagnostic: diag, Abort: abort}
}

// Walk visits every statement in body depth-first, including both branches
// of conditionals and every switch bucket.
func Walk(body []Statement, visit func(Statement)) {
	for _, stmt := range body {
		visit(stmt)
		switch n := stmt.(type) {
		case *ForLoop:
			Walk(n.Body, visit)
		case *If:
			Walk(n.Then, visit)
			Walk(n.Else, visit)
		case *Switch:
			for _, c := range n.Cases {
				Walk(c.Body, visit)
			}
			if n.Default != nil {
				Walk(n.Default.Body, visit)
			}
		}
	}
}
