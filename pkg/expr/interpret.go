package expr

import (
	"fmt"
	"math"
)

// Interpret evaluates node against vars by walking the tree on every call.
// It applies the same operand order and float64 semantics as the compiled
// backends and serves as their reference.
func Interpret(node Operation, vars Binding) (float64, error) {
	if IsNil(node) {
		return 0, ErrNullOperation
	}

	switch n := node.(type) {
	case *IntegerConstant:
		return float64(n.Value), nil

	case *FloatingPointConstant:
		return n.Value, nil

	case *Variable:
		return vars.Lookup(n.Name)

	case *BinaryNode:
		return interpretBinary(n, vars)

	case *FunctionNode:
		return interpretFunction(n, vars)

	default:
		return 0, &UnsupportedOperationError{Kind: fmt.Sprintf("%T", node)}
	}
}

func interpretBinary(b *BinaryNode, vars Binding) (float64, error) {
	left, err := Interpret(b.Left, vars)
	if err != nil {
		return 0, err
	}
	right, err := Interpret(b.Right, vars)
	if err != nil {
		return 0, err
	}

	switch b.Op {
	case OpAdd:
		return left + right, nil
	case OpSub:
		return left - right, nil
	case OpMul:
		return left * right, nil
	case OpDiv:
		return left / right, nil
	case OpPow:
		return math.Pow(left, right), nil
	default:
		return 0, &UnsupportedOperationError{Kind: b.Op.String()}
	}
}

func interpretFunction(f *FunctionNode, vars Binding) (float64, error) {
	arity := f.Kind.Arity()
	if arity < 0 {
		return 0, &UnsupportedFunctionError{Kind: f.Kind}
	}
	if len(f.Args) != arity {
		return 0, &ArityError{Kind: f.Kind, Want: arity, Got: len(f.Args)}
	}

	args := make([]float64, arity)
	for i, a := range f.Args {
		v, err := Interpret(a, vars)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	switch f.Kind {
	case Sine:
		return math.Sin(args[0]), nil
	case Cosine:
		return math.Cos(args[0]), nil
	case NaturalLog:
		return math.Log(args[0]), nil
	case Log10:
		return math.Log10(args[0]), nil
	case LogN:
		return math.Log(args[0]) / math.Log(args[1]), nil
	default:
		return 0, &UnsupportedFunctionError{Kind: f.Kind}
	}
}
