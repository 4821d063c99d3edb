package runtime

import (
	"reflect"
	"testing"
)

func TestEnvironmentDefineAssignGet(t *testing.T) {
	env := NewEnvironment()
	if err := env.Assign("x", IntegerValue{Val: 1}); err == nil {
		t.Fatalf("expected assign to an unbound name to fail")
	}
	env.Define("x", IntegerValue{Val: 1})
	if err := env.Assign("x", StringValue{Val: "now text"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	v, err := env.Get("x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != (StringValue{Val: "now text"}) {
		t.Fatalf("expected rebinding to change kind, got %#v", v)
	}
	if _, err := env.Get("missing"); err == nil || err.Error() != "Undefined variable 'missing'" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEnvironmentOrderingAndClear(t *testing.T) {
	env := NewEnvironment()
	for _, name := range []string{"zeta", "alpha", "mid", "alpha"} {
		env.Define(name, IntegerValue{Val: int64(len(name))})
	}
	if got := env.Keys(); !reflect.DeepEqual(got, []string{"alpha", "mid", "zeta"}) {
		t.Fatalf("keys = %v", got)
	}
	if env.Len() != 3 {
		t.Fatalf("len = %d", env.Len())
	}
	snap := env.Snapshot()
	env.Define("alpha", IntegerValue{Val: 99})
	if snap["alpha"] != (IntegerValue{Val: 5}) {
		t.Fatalf("snapshot should not observe later writes, got %#v", snap["alpha"])
	}
	var visited []string
	env.Each(func(name string, _ Value) bool {
		visited = append(visited, name)
		return name != "mid"
	})
	if !reflect.DeepEqual(visited, []string{"alpha", "mid"}) {
		t.Fatalf("each visited %v", visited)
	}
	env.Clear()
	if env.Len() != 0 || env.Has("alpha") {
		t.Fatalf("expected clear to drop every binding")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{IntegerValue{Val: -14}, "-14"},
		{FloatValue{Val: 2.5}, "2.5"},
		{FloatValue{Val: 3}, "3.0"},
		{StringValue{Val: "hi there"}, "hi there"},
		{BoolValue{Val: true}, "true"},
		{BoolValue{Val: false}, "false"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	truthy := []Value{IntegerValue{Val: 2}, FloatValue{Val: 0.5}, StringValue{Val: "x"}, BoolValue{Val: true}}
	falsy := []Value{IntegerValue{}, FloatValue{}, StringValue{}, BoolValue{}, nil}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
}

func TestCoercions(t *testing.T) {
	cases := []struct {
		in      Value
		want    int64
		wantErr bool
	}{
		{IntegerValue{Val: 7}, 7, false},
		{FloatValue{Val: 7.9}, 7, false},
		{FloatValue{Val: -7.9}, -7, false},
		{BoolValue{Val: true}, 1, false},
		{StringValue{Val: "42"}, 42, false},
		{StringValue{Val: "forty"}, 0, true},
	}
	for _, tc := range cases {
		got, err := ToInteger(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ToInteger(%#v): expected error", tc.in)
			}
			continue
		}
		if err != nil || got.Val != tc.want {
			t.Fatalf("ToInteger(%#v) = %v, %v; want %d", tc.in, got.Val, err, tc.want)
		}
	}
	if got := ToString(StringValue{Val: `"quoted"`}); got.Val != "quoted" {
		t.Fatalf("ToString stripped to %q", got.Val)
	}
	if got := ToString(IntegerValue{Val: 5}); got.Val != "5" {
		t.Fatalf("ToString(5) = %q", got.Val)
	}
}
