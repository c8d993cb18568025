package expr

func (c *IntegerConstant) Clone() Operation {
	return &IntegerConstant{Value: c.Value}
}

func (c *FloatingPointConstant) Clone() Operation {
	return &FloatingPointConstant{Value: c.Value}
}

func (v *Variable) Clone() Operation {
	return &Variable{Name: v.Name}
}

func (b *BinaryNode) Clone() Operation {
	return &BinaryNode{
		Op:    b.Op,
		Left:  b.Left.Clone(),
		Right: b.Right.Clone(),
	}
}

func (f *FunctionNode) Clone() Operation {
	args := make([]Operation, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.Clone()
	}
	return &FunctionNode{Kind: f.Kind, Args: args}
}
