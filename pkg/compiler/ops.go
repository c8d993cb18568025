package compiler

import (
	"fmt"
	"math"

	"github.com/wildfunctions/formula/pkg/expr"
)

type binaryFunc func(left, right float64) float64

// Operator and function implementations, bound once for every backend.
var binaryOps = map[expr.BinaryOp]binaryFunc{
	expr.OpAdd: func(l, r float64) float64 { return l + r },
	expr.OpSub: func(l, r float64) float64 { return l - r },
	expr.OpMul: func(l, r float64) float64 { return l * r },
	expr.OpDiv: func(l, r float64) float64 { return l / r },
	expr.OpPow: math.Pow,
}

type function struct {
	arity  int
	unary  func(float64) float64
	binary binaryFunc
}

var functions = map[expr.FunctionKind]function{
	expr.Sine:       {arity: 1, unary: math.Sin},
	expr.Cosine:     {arity: 1, unary: math.Cos},
	expr.NaturalLog: {arity: 1, unary: math.Log},
	expr.Log10:      {arity: 1, unary: math.Log10},
	expr.LogN:       {arity: 2, binary: logN},
}

// logN is ln(value)/ln(base). A base of 1 divides by zero and yields
// +Inf, -Inf or NaN.
func logN(value, base float64) float64 {
	return math.Log(value) / math.Log(base)
}

func lookupBinary(op expr.BinaryOp) (binaryFunc, error) {
	fn, ok := binaryOps[op]
	if !ok {
		return nil, &expr.UnsupportedOperationError{Kind: op.String()}
	}
	return fn, nil
}

func lookupFunction(n *expr.FunctionNode) (function, error) {
	fn, ok := functions[n.Kind]
	if !ok {
		return function{}, &expr.UnsupportedFunctionError{Kind: n.Kind}
	}
	if len(n.Args) != fn.arity {
		return function{}, &expr.ArityError{Kind: n.Kind, Want: fn.arity, Got: len(n.Args)}
	}
	return fn, nil
}

func unsupportedNode(node expr.Operation) error {
	return &expr.UnsupportedOperationError{Kind: fmt.Sprintf("%T", node)}
}
