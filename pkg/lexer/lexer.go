// Package lexer splits statement text into tokens.
package lexer

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`".*?"|\S+`)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Tokenize splits text on whitespace, keeping each double-quoted run
// (quotes included) as a single token. There are no escapes.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// IsIdentifier reports whether tok is a valid variable name.
func IsIdentifier(tok string) bool {
	return identifierPattern.MatchString(tok)
}

// IsIntegerLiteral reports whether tok is all ASCII digits.
func IsIntegerLiteral(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// IsStringLiteral reports whether tok is enclosed in double quotes.
func IsStringLiteral(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`)
}

// Unquote strips one pair of enclosing double quotes, if present.
func Unquote(tok string) string {
	if IsStringLiteral(tok) {
		return tok[1 : len(tok)-1]
	}
	return tok
}

// Operator precedence levels.
const (
	PrecComparison = 0
	PrecAdditive   = 1
	PrecMultiply   = 2
)

var precedence = map[string]int{
	"*":  PrecMultiply,
	"/":  PrecMultiply,
	"+":  PrecAdditive,
	"-":  PrecAdditive,
	">":  PrecComparison,
	"<":  PrecComparison,
	">=": PrecComparison,
	"<=": PrecComparison,
	"==": PrecComparison,
	"!=": PrecComparison,
}

// Precedence returns the binding strength of an operator token.
func Precedence(tok string) (int, bool) {
	p, ok := precedence[tok]
	return p, ok
}

// IsOperator reports whether tok is an arithmetic or comparison operator.
func IsOperator(tok string) bool {
	_, ok := precedence[tok]
	return ok
}
