package pool

import (
	"math/rand"

	"github.com/wildfunctions/formula/pkg/expr"
)

func init() {
	Register("moderate", func() Pool { return &ModeratePool{} })
}

// ModeratePool extends arith with a third variable, fractional and
// power-of-two constants, sin/cos, and power.
type ModeratePool struct{}

func (p *ModeratePool) Name() string { return "moderate" }

func (p *ModeratePool) Variables() []string { return []string{"x", "y", "z"} }

func (p *ModeratePool) RandomLeaf(rng *rand.Rand) expr.Operation {
	r := rng.Float64()
	switch {
	case r < 0.35:
		return randomVariable(p, rng)
	case r < 0.75:
		return expr.Int(int64(rng.Intn(10) + 1))
	case r < 0.875:
		// powers of 2: 2, 4, 8, 16
		exp := rng.Intn(4) + 1
		return expr.Int(int64(1) << uint(exp))
	default:
		halves := []float64{0.5, 1.5, 2.5}
		return expr.Float(halves[rng.Intn(len(halves))])
	}
}

var moderateFunctions = []expr.FunctionKind{
	expr.Sine,
	expr.Cosine,
}

func (p *ModeratePool) RandomFunction(rng *rand.Rand) (expr.FunctionKind, bool) {
	return moderateFunctions[rng.Intn(len(moderateFunctions))], true
}

var moderateBinary = []expr.BinaryOp{
	expr.OpAdd,
	expr.OpSub,
	expr.OpMul,
	expr.OpDiv,
	expr.OpPow,
}

func (p *ModeratePool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return moderateBinary[rng.Intn(len(moderateBinary))]
}

func (p *ModeratePool) RandomTree(rng *rand.Rand, maxDepth int) expr.Operation {
	return randomTree(p, rng, maxDepth)
}
