package compiler

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/wildfunctions/formula/pkg/expr"
)

func init() {
	Register("closure", func() Backend { return closureBackend{} })
}

// closureBackend emits one Go closure per node, each closed over the
// closures emitted for its operands. The tree is walked once, at compile
// time.
type closureBackend struct{}

func (closureBackend) Name() string { return "closure" }

func (b closureBackend) Compile(root expr.Operation) (Func, error) {
	fn, err := emitClosure(root)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backend", b.Name())
	}
	if glog.V(5) {
		glog.V(5).Infof("Compiled %v (%d nodes) with the %s backend", root, root.NodeCount(), b.Name())
	}
	return fn, nil
}

func emitClosure(node expr.Operation) (Func, error) {
	if expr.IsNil(node) {
		return nil, expr.ErrNullOperation
	}

	switch n := node.(type) {
	case *expr.IntegerConstant:
		v := float64(n.Value)
		return func(expr.Binding) (float64, error) { return v, nil }, nil

	case *expr.FloatingPointConstant:
		v := n.Value
		return func(expr.Binding) (float64, error) { return v, nil }, nil

	case *expr.Variable:
		name := n.Name
		return func(vars expr.Binding) (float64, error) { return vars.Lookup(name) }, nil

	case *expr.BinaryNode:
		return emitBinaryClosure(n)

	case *expr.FunctionNode:
		return emitFunctionClosure(n)

	default:
		return nil, unsupportedNode(node)
	}
}

func emitBinaryClosure(n *expr.BinaryNode) (Func, error) {
	op, err := lookupBinary(n.Op)
	if err != nil {
		return nil, err
	}
	left, err := emitClosure(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := emitClosure(n.Right)
	if err != nil {
		return nil, err
	}

	return func(vars expr.Binding) (float64, error) {
		l, err := left(vars)
		if err != nil {
			return 0, err
		}
		r, err := right(vars)
		if err != nil {
			return 0, err
		}
		return op(l, r), nil
	}, nil
}

func emitFunctionClosure(n *expr.FunctionNode) (Func, error) {
	fn, err := lookupFunction(n)
	if err != nil {
		return nil, err
	}
	args := make([]Func, len(n.Args))
	for i, a := range n.Args {
		if args[i], err = emitClosure(a); err != nil {
			return nil, err
		}
	}

	if fn.arity == 1 {
		arg, unary := args[0], fn.unary
		return func(vars expr.Binding) (float64, error) {
			v, err := arg(vars)
			if err != nil {
				return 0, err
			}
			return unary(v), nil
		}, nil
	}

	first, second, binary := args[0], args[1], fn.binary
	return func(vars expr.Binding) (float64, error) {
		a, err := first(vars)
		if err != nil {
			return 0, err
		}
		b, err := second(vars)
		if err != nil {
			return 0, err
		}
		return binary(a, b), nil
	}, nil
}
