// Package runtime holds the values a program computes and the environment
// they are bound in.
package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

// FloatValue only arises from division.
type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// Format renders v the way display and print write it. Whole floats keep a
// ".0" suffix so they stay distinguishable from integers.
func Format(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		s := strconv.FormatFloat(val.Val, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case StringValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// Truthy reports whether v selects the first branch of a conditional:
// non-zero numbers, non-empty strings and true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case IntegerValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case BoolValue:
		return val.Val
	default:
		return false
	}
}

// Numeric returns v as a float64 for mixed arithmetic. Booleans count as 0 or
// 1; strings are not numeric.
func Numeric(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntegerValue:
		return float64(val.Val), true
	case FloatValue:
		return val.Val, true
	case BoolValue:
		if val.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ToInteger coerces v for an int declaration.
func ToInteger(v Value) (IntegerValue, error) {
	switch val := v.(type) {
	case IntegerValue:
		return val, nil
	case FloatValue:
		return IntegerValue{Val: int64(val.Val)}, nil
	case BoolValue:
		if val.Val {
			return IntegerValue{Val: 1}, nil
		}
		return IntegerValue{Val: 0}, nil
	case StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(val.Val), 10, 64)
		if err != nil {
			return IntegerValue{}, fmt.Errorf("cannot convert %q to an integer", val.Val)
		}
		return IntegerValue{Val: n}, nil
	default:
		return IntegerValue{}, fmt.Errorf("cannot convert %s to an integer", describeKind(v))
	}
}

// ToString coerces v for a string declaration: its textual form with one
// pair of enclosing double quotes removed.
func ToString(v Value) StringValue {
	s := Format(v)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return StringValue{Val: s}
}

func describeKind(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}
