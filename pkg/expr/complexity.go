package expr

import "math"

func (c *IntegerConstant) NodeCount() int       { return 1 }
func (c *FloatingPointConstant) NodeCount() int { return 1 }
func (v *Variable) NodeCount() int              { return 1 }
func (b *BinaryNode) NodeCount() int {
	return 1 + b.Left.NodeCount() + b.Right.NodeCount()
}
func (f *FunctionNode) NodeCount() int {
	n := 1
	for _, a := range f.Args {
		n += a.NodeCount()
	}
	return n
}

func (c *IntegerConstant) Depth() int       { return 1 }
func (c *FloatingPointConstant) Depth() int { return 1 }
func (v *Variable) Depth() int              { return 1 }
func (b *BinaryNode) Depth() int {
	ld := b.Left.Depth()
	rd := b.Right.Depth()
	if ld > rd {
		return 1 + ld
	}
	return 1 + rd
}
func (f *FunctionNode) Depth() int {
	d := 0
	for _, a := range f.Args {
		if ad := a.Depth(); ad > d {
			d = ad
		}
	}
	return 1 + d
}

// WeightedComplexity returns a complexity score with heavier weight for
// operations that are more expensive to evaluate (pow, transcendental calls).
func WeightedComplexity(node Operation) float64 {
	switch n := node.(type) {
	case *Variable:
		return 1.0
	case *IntegerConstant:
		v := n.Value
		if v < 0 {
			v = -v
		}
		if v <= 10 {
			return 1.0
		}
		return 1.0 + math.Log10(float64(v))
	case *FloatingPointConstant:
		return 1.0
	case *BinaryNode:
		return binaryWeight(n.Op) + WeightedComplexity(n.Left) + WeightedComplexity(n.Right)
	case *FunctionNode:
		w := functionWeight(n.Kind)
		for _, a := range n.Args {
			w += WeightedComplexity(a)
		}
		return w
	default:
		return 1.0
	}
}

func binaryWeight(op BinaryOp) float64 {
	switch op {
	case OpAdd, OpSub:
		return 1.0
	case OpMul, OpDiv:
		return 1.5
	case OpPow:
		return 2.0
	default:
		return 1.5
	}
}

func functionWeight(kind FunctionKind) float64 {
	switch kind {
	case Sine, Cosine, NaturalLog, Log10:
		return 3.0
	case LogN:
		return 4.0
	default:
		return 3.0
	}
}

// Variables returns the distinct variable names referenced by node, in the
// order they are first evaluated.
func Variables(node Operation) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Operation)
	walk = func(op Operation) {
		switch n := op.(type) {
		case *Variable:
			if n != nil && !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *BinaryNode:
			if n != nil {
				walk(n.Left)
				walk(n.Right)
			}
		case *FunctionNode:
			if n != nil {
				for _, a := range n.Args {
					walk(a)
				}
			}
		}
	}
	walk(node)
	return names
}
