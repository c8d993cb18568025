package pool

import (
	"math"
	"math/rand"

	"github.com/wildfunctions/formula/pkg/expr"
)

func init() {
	Register("kitchensink", func() Pool { return &KitchenSinkPool{} })
}

// KitchenSinkPool uses every node kind and function, plus constants that
// push results out of the finite range (zero, negatives, huge values).
type KitchenSinkPool struct{}

func (p *KitchenSinkPool) Name() string { return "kitchensink" }

func (p *KitchenSinkPool) Variables() []string { return []string{"x", "y", "z", "t"} }

func (p *KitchenSinkPool) RandomLeaf(rng *rand.Rand) expr.Operation {
	r := rng.Float64()
	switch {
	case r < 0.35:
		return randomVariable(p, rng)
	case r < 0.65:
		return expr.Int(int64(rng.Intn(21) - 10))
	case r < 0.85:
		return expr.Float(rng.Float64()*4 - 2)
	default:
		edges := []float64{0, math.Copysign(0, -1), 1, 1e308, -1e308, math.Pi}
		return expr.Float(edges[rng.Intn(len(edges))])
	}
}

var kitchenSinkFunctions = []expr.FunctionKind{
	expr.Sine,
	expr.Cosine,
	expr.NaturalLog,
	expr.Log10,
	expr.LogN,
}

func (p *KitchenSinkPool) RandomFunction(rng *rand.Rand) (expr.FunctionKind, bool) {
	return kitchenSinkFunctions[rng.Intn(len(kitchenSinkFunctions))], true
}

var kitchenSinkBinary = []expr.BinaryOp{
	expr.OpAdd,
	expr.OpSub,
	expr.OpMul,
	expr.OpDiv,
	expr.OpPow,
}

func (p *KitchenSinkPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return kitchenSinkBinary[rng.Intn(len(kitchenSinkBinary))]
}

func (p *KitchenSinkPool) RandomTree(rng *rand.Rand, maxDepth int) expr.Operation {
	return randomTree(p, rng, maxDepth)
}
