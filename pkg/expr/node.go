package expr

// Operation is the interface for all formula tree nodes. The set of node
// kinds is closed: only the types in this package implement it.
type Operation interface {
	String() string
	LaTeX() string
	Clone() Operation
	NodeCount() int
	Depth() int

	operation()
}

// BinaryOp identifies a binary operation.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv // Left is the dividend, Right the divisor
	OpPow // Left is the base, Right the exponent
)

// FunctionKind identifies a built-in function.
type FunctionKind int

const (
	Sine FunctionKind = iota
	Cosine
	NaturalLog
	Log10
	LogN // Args[0] is the value, Args[1] the base
)

// Arity returns the number of arguments a function of this kind takes, or
// -1 for an unknown kind.
func (k FunctionKind) Arity() int {
	switch k {
	case Sine, Cosine, NaturalLog, Log10:
		return 1
	case LogN:
		return 2
	default:
		return -1
	}
}

// IntegerConstant is an integer literal.
type IntegerConstant struct {
	Value int64
}

// FloatingPointConstant is a float64 literal.
type FloatingPointConstant struct {
	Value float64
}

// Variable references a value supplied by the caller's Binding.
type Variable struct {
	Name string
}

// BinaryNode applies a binary operation to two operands, evaluated Left
// first.
type BinaryNode struct {
	Op          BinaryOp
	Left, Right Operation
}

// FunctionNode applies a built-in function to its arguments, evaluated in
// order.
type FunctionNode struct {
	Kind FunctionKind
	Args []Operation
}

func (*IntegerConstant) operation()       {}
func (*FloatingPointConstant) operation() {}
func (*Variable) operation()              {}
func (*BinaryNode) operation()            {}
func (*FunctionNode) operation()          {}

func Int(v int64) *IntegerConstant { return &IntegerConstant{Value: v} }
func Float(v float64) *FloatingPointConstant { return &FloatingPointConstant{Value: v} }
func Var(name string) *Variable { return &Variable{Name: name} }

func Add(left, right Operation) *BinaryNode { return &BinaryNode{Op: OpAdd, Left: left, Right: right} }
func Sub(left, right Operation) *BinaryNode { return &BinaryNode{Op: OpSub, Left: left, Right: right} }
func Mul(left, right Operation) *BinaryNode { return &BinaryNode{Op: OpMul, Left: left, Right: right} }

// Div builds dividend / divisor.
func Div(dividend, divisor Operation) *BinaryNode {
	return &BinaryNode{Op: OpDiv, Left: dividend, Right: divisor}
}

// Pow builds base ^ exponent.
func Pow(base, exponent Operation) *BinaryNode {
	return &BinaryNode{Op: OpPow, Left: base, Right: exponent}
}

// Call builds a function node.
func Call(kind FunctionKind, args ...Operation) *FunctionNode {
	return &FunctionNode{Kind: kind, Args: args}
}

// IsNil reports whether op is nil, including a typed nil pointer stored in
// the interface.
func IsNil(op Operation) bool {
	switch n := op.(type) {
	case nil:
		return true
	case *IntegerConstant:
		return n == nil
	case *FloatingPointConstant:
		return n == nil
	case *Variable:
		return n == nil
	case *BinaryNode:
		return n == nil
	case *FunctionNode:
		return n == nil
	default:
		return false
	}
}
