package lexer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"grah int x = 2 + 3 * 4", []string{"grah", "int", "x", "=", "2", "+", "3", "*", "4"}},
		{`grah string s = "hello world"`, []string{"grah", "string", "s", "=", `"hello world"`}},
		{`display- "a" + "b  c"`, []string{"display-", `"a"`, "+", `"b  c"`}},
		{`case "x y":`, []string{"case", `"x y"`, ":"}},
		{"   \t ", nil},
		{`display- "unterminated`, []string{"display-", `"unterminated`}},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Tokenize(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !IsIdentifier("_count2") || IsIdentifier("2count") || IsIdentifier("a-b") {
		t.Fatalf("identifier classification is wrong")
	}
	if !IsIntegerLiteral("0042") || IsIntegerLiteral("-1") || IsIntegerLiteral("") || IsIntegerLiteral("1.5") {
		t.Fatalf("integer classification is wrong")
	}
	if !IsStringLiteral(`""`) || IsStringLiteral(`"`) || IsStringLiteral(`abc`) {
		t.Fatalf("string classification is wrong")
	}
	if Unquote(`"hi"`) != "hi" || Unquote("hi") != "hi" || Unquote(`""x""`) != `"x"` {
		t.Fatalf("unquote is wrong")
	}
}

func TestPrecedence(t *testing.T) {
	mul, _ := Precedence("*")
	add, _ := Precedence("+")
	cmp, _ := Precedence(">=")
	if !(mul > add && add > cmp) {
		t.Fatalf("expected * > + > >=, got %d %d %d", mul, add, cmp)
	}
	if IsOperator("=") || IsOperator("(") {
		t.Fatalf("= and ( are not operators")
	}
}
