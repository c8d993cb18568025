package pool

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/wildfunctions/formula/pkg/expr"
)

// Pool provides random building blocks for constructing operation trees.
type Pool interface {
	Name() string
	Variables() []string
	RandomLeaf(rng *rand.Rand) expr.Operation
	RandomFunction(rng *rand.Rand) (expr.FunctionKind, bool)
	RandomBinary(rng *rand.Rand) expr.BinaryOp
	RandomTree(rng *rand.Rand, maxDepth int) expr.Operation
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown pool: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered pool names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	return names
}

// RandomBinding binds every variable of p to a value in [-10, 10).
func RandomBinding(p Pool, rng *rand.Rand) expr.Binding {
	vars := make(expr.Binding, len(p.Variables()))
	for _, name := range p.Variables() {
		vars[name] = rng.Float64()*20 - 10
	}
	return vars
}

// randomVariable picks one of p's variable names.
func randomVariable(p Pool, rng *rand.Rand) expr.Operation {
	names := p.Variables()
	return expr.Var(names[rng.Intn(len(names))])
}

// randomTree is a shared helper for building random trees.
func randomTree(p Pool, rng *rand.Rand, maxDepth int) expr.Operation {
	if maxDepth <= 1 {
		return p.RandomLeaf(rng)
	}
	// Bias toward leaves at shallow depths to keep trees small
	r := rng.Float64()
	switch {
	case r < 0.4:
		return p.RandomLeaf(rng)
	case r < 0.6:
		if kind, ok := p.RandomFunction(rng); ok {
			args := make([]expr.Operation, kind.Arity())
			for i := range args {
				args[i] = randomTree(p, rng, maxDepth-1)
			}
			return expr.Call(kind, args...)
		}
		fallthrough
	default:
		return &expr.BinaryNode{
			Op:    p.RandomBinary(rng),
			Left:  randomTree(p, rng, maxDepth-1),
			Right: randomTree(p, rng, maxDepth-1),
		}
	}
}
