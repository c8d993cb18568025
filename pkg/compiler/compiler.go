// Package compiler turns formula trees into reusable functions.
//
// A Func is produced once per Compile call and may then be invoked any
// number of times, with different bindings, from any number of goroutines.
// Compile-time problems (nil nodes, unknown operations or functions, wrong
// argument counts) are reported by Compile; the only error a Func raises on
// its own is *expr.VariableNotDefinedError, at the moment the offending
// variable is evaluated.
package compiler

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/formula/pkg/expr"
)

// Func evaluates a compiled formula against one binding.
type Func func(vars expr.Binding) (float64, error)

// Backend generates a Func from an Operation tree.
type Backend interface {
	Name() string
	Compile(root expr.Operation) (Func, error)
}

// DefaultBackend is the backend used by Compile and Evaluate.
const DefaultBackend = "closure"

var registry = map[string]func() Backend{}

// Register adds a backend constructor to the registry.
func Register(name string, constructor func() Backend) {
	registry[name] = constructor
}

// Get returns a backend by name.
func Get(name string) (Backend, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown backend: %s (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns all registered backend names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Compile generates a Func for root with the default backend.
func Compile(root expr.Operation) (Func, error) {
	b, err := Get(DefaultBackend)
	if err != nil {
		return nil, err
	}
	return b.Compile(root)
}

// Evaluate compiles root and calls the result once. It recompiles on every
// call; callers evaluating the same tree repeatedly should keep the Func
// from Compile instead.
func Evaluate(root expr.Operation, vars expr.Binding) (float64, error) {
	fn, err := Compile(root)
	if err != nil {
		return 0, err
	}
	return fn(vars)
}

// EvaluateInts is Evaluate with an integer binding, widened to float64.
func EvaluateInts(root expr.Operation, vars map[string]int) (float64, error) {
	return Evaluate(root, expr.WidenInts(vars))
}
