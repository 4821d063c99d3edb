// Package config holds the keyword table that maps semantic roles to the
// surface keywords of one concrete syntax.
package config

import (
	"fmt"
	"strings"
	"unicode"
)

// StatementKind identifies the handler a keyword dispatches to.
type StatementKind int

const (
	KindDeclaration StatementKind = iota
	KindDisplay
	KindPrint
	KindAssignment
	KindFor
	KindIf
	KindSwitch
)

func (k StatementKind) String() string {
	switch k {
	case KindDeclaration:
		return "declaration"
	case KindDisplay:
		return "display"
	case KindPrint:
		return "print"
	case KindAssignment:
		return "assignment"
	case KindFor:
		return "for"
	case KindIf:
		return "if"
	case KindSwitch:
		return "switch"
	default:
		return fmt.Sprintf("unknown_statement_%d", int(k))
	}
}

// IsBlock reports whether statements of this kind open a brace-delimited body.
func (k StatementKind) IsBlock() bool {
	return k == KindFor || k == KindIf || k == KindSwitch
}

// AssignmentKeyword is the fixed dispatch token for bare assignments.
const AssignmentKeyword = "="

// reserved symbols can never be configured as keywords.
var reserved = []string{"=", "{", "}", ".", "in", "range"}

// Keywords is the mutable description of a syntax. Build a Table from it
// with NewTable.
type Keywords struct {
	Declare []string
	Display []string
	Print   string
	Int     string
	String  string
	For     string
	If      string
	Else    string
	Switch  string
	Case    string
	Default string
}

// Default returns the stock syntax.
func Default() Keywords {
	return Keywords{
		Declare: []string{"grah", "hero"},
		Display: []string{"display-"},
		Print:   "print-",
		Int:     "int",
		String:  "string",
		For:     "for",
		If:      "if",
		Else:    "else",
		Switch:  "switch",
		Case:    "case",
		Default: "default",
	}
}

func (k Keywords) clone() Keywords {
	out := k
	out.Declare = append([]string(nil), k.Declare...)
	out.Display = append([]string(nil), k.Display...)
	return out
}

// Entry is one row of the ordered dispatch list.
type Entry struct {
	Keyword string
	Kind    StatementKind
}

// Table is an immutable, validated keyword table. The dispatch order is
// fixed at construction: declare keywords, display keywords, print,
// assignment, for, if, switch.
type Table struct {
	keywords Keywords
	entries  []Entry
}

// ValidationError aggregates keyword table problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "keywords: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("keyword table validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// NewTable validates k and freezes it into a Table.
func NewTable(k Keywords) (*Table, error) {
	k = k.clone()
	if err := validate(k); err != nil {
		return nil, err
	}
	t := &Table{keywords: k}
	for _, kw := range k.Declare {
		t.entries = append(t.entries, Entry{Keyword: kw, Kind: KindDeclaration})
	}
	for _, kw := range k.Display {
		t.entries = append(t.entries, Entry{Keyword: kw, Kind: KindDisplay})
	}
	t.entries = append(t.entries,
		Entry{Keyword: k.Print, Kind: KindPrint},
		Entry{Keyword: AssignmentKeyword, Kind: KindAssignment},
		Entry{Keyword: k.For, Kind: KindFor},
		Entry{Keyword: k.If, Kind: KindIf},
		Entry{Keyword: k.Switch, Kind: KindSwitch},
	)
	return t, nil
}

// DefaultTable returns the table for Default().
func DefaultTable() *Table {
	t, err := NewTable(Default())
	if err != nil {
		panic(err)
	}
	return t
}

func validate(k Keywords) error {
	var errs ValidationError
	if len(k.Declare) == 0 {
		errs.Issues = append(errs.Issues, "declare must list at least one keyword")
	}
	if len(k.Display) == 0 {
		errs.Issues = append(errs.Issues, "display must list at least one keyword")
	}

	type role struct {
		name    string
		keyword string
	}
	var roles []role
	for i, kw := range k.Declare {
		roles = append(roles, role{fmt.Sprintf("declare[%d]", i), kw})
	}
	for i, kw := range k.Display {
		roles = append(roles, role{fmt.Sprintf("display[%d]", i), kw})
	}
	roles = append(roles,
		role{"print", k.Print},
		role{"int", k.Int},
		role{"string", k.String},
		role{"for", k.For},
		role{"if", k.If},
		role{"else", k.Else},
		role{"switch", k.Switch},
		role{"case", k.Case},
		role{"default", k.Default},
	)

	seen := make(map[string]string, len(roles))
	for _, r := range roles {
		switch {
		case r.keyword == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s must be a non-empty keyword", r.name))
			continue
		case strings.IndexFunc(r.keyword, unicode.IsSpace) >= 0:
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s keyword %q must not contain whitespace", r.name, r.keyword))
			continue
		case isReserved(r.keyword):
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s keyword %q is a reserved symbol", r.name, r.keyword))
			continue
		}
		if other, ok := seen[r.keyword]; ok {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s and %s both use %q", other, r.name, r.keyword))
			continue
		}
		seen[r.keyword] = r.name
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func isReserved(keyword string) bool {
	for _, r := range reserved {
		if keyword == r {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the table's keyword description.
func (t *Table) Keywords() Keywords {
	return t.keywords.clone()
}

// Entries returns the ordered dispatch list.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Match finds the first entry whose keyword equals tokens[0] or tokens[1].
// It returns the entry and the index of the matching token.
func (t *Table) Match(tokens []string) (Entry, int, bool) {
	if len(tokens) == 0 {
		return Entry{}, 0, false
	}
	for _, e := range t.entries {
		if tokens[0] == e.Keyword {
			return e, 0, true
		}
		if len(tokens) > 1 && tokens[1] == e.Keyword {
			return e, 1, true
		}
	}
	return Entry{}, 0, false
}

func (t *Table) IntType() string    { return t.keywords.Int }
func (t *Table) StringType() string { return t.keywords.String }
func (t *Table) If() string         { return t.keywords.If }
func (t *Table) Else() string       { return t.keywords.Else }
func (t *Table) Case() string       { return t.keywords.Case }
func (t *Table) Default() string    { return t.keywords.Default }

// IsType reports whether word is the int or string type keyword.
func (t *Table) IsType(word string) bool {
	return word == t.keywords.Int || word == t.keywords.String
}

// DeclareKeywords returns the declaration keywords in table order.
func (t *Table) DeclareKeywords() []string {
	return append([]string(nil), t.keywords.Declare...)
}
