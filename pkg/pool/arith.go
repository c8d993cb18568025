package pool

import (
	"math/rand"

	"github.com/wildfunctions/formula/pkg/expr"
)

func init() {
	Register("arith", func() Pool { return &ArithPool{} })
}

// ArithPool provides basic building blocks: x, y, ints 1-10, and the four
// arithmetic operators.
type ArithPool struct{}

func (p *ArithPool) Name() string { return "arith" }

func (p *ArithPool) Variables() []string { return []string{"x", "y"} }

func (p *ArithPool) RandomLeaf(rng *rand.Rand) expr.Operation {
	if rng.Float64() < 0.4 {
		return randomVariable(p, rng)
	}
	return expr.Int(int64(rng.Intn(10) + 1))
}

func (p *ArithPool) RandomFunction(rng *rand.Rand) (expr.FunctionKind, bool) {
	return 0, false
}

var arithBinary = []expr.BinaryOp{
	expr.OpAdd,
	expr.OpSub,
	expr.OpMul,
	expr.OpDiv,
}

func (p *ArithPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return arithBinary[rng.Intn(len(arithBinary))]
}

func (p *ArithPool) RandomTree(rng *rand.Rand, maxDepth int) expr.Operation {
	return randomTree(p, rng, maxDepth)
}
