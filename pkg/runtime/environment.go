package runtime

import (
	"fmt"

	"github.com/google/btree"
)

const environmentDegree = 8

type binding struct {
	name  string
	value Value
}

func bindingLess(a, b binding) bool {
	return a.name < b.name
}

// Environment is the single variable store of an interpreter. Blocks do not
// introduce scopes: a loop variable or a binding made inside a branch stays
// visible after the block ends. Bindings are kept ordered by name.
type Environment struct {
	tree *btree.BTreeG[binding]
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{tree: btree.NewG(environmentDegree, bindingLess)}
}

// Define inserts or overwrites a binding.
func (e *Environment) Define(name string, value Value) {
	e.tree.ReplaceOrInsert(binding{name: name, value: value})
}

// Assign updates an existing binding.
func (e *Environment) Assign(name string, value Value) error {
	if !e.Has(name) {
		return fmt.Errorf("Undefined variable '%s'", name)
	}
	e.tree.ReplaceOrInsert(binding{name: name, value: value})
	return nil
}

// Get retrieves a binding.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("Undefined variable '%s'", name)
}

// Lookup is Get without the error.
func (e *Environment) Lookup(name string) (Value, bool) {
	b, ok := e.tree.Get(binding{name: name})
	if !ok {
		return nil, false
	}
	return b.value, true
}

func (e *Environment) Has(name string) bool {
	return e.tree.Has(binding{name: name})
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	return e.tree.Len()
}

// Keys returns the bound names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, e.tree.Len())
	e.tree.Ascend(func(b binding) bool {
		keys = append(keys, b.name)
		return true
	})
	return keys
}

// Snapshot returns a copy of the current bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, e.tree.Len())
	e.tree.Ascend(func(b binding) bool {
		out[b.name] = b.value
		return true
	})
	return out
}

// Each calls fn for every binding in name order until fn returns false.
func (e *Environment) Each(fn func(name string, value Value) bool) {
	e.tree.Ascend(func(b binding) bool {
		return fn(b.name, b.value)
	})
}

// Clear removes every binding.
func (e *Environment) Clear() {
	e.tree.Clear(false)
}
