package expr

import (
	"fmt"
	"strconv"
	"strings"
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

var functionNames = map[FunctionKind]string{
	Sine:       "sin",
	Cosine:     "cos",
	NaturalLog: "loge",
	Log10:      "log10",
	LogN:       "logn",
}

func (op BinaryOp) String() string {
	if sym, ok := binaryOpSymbols[op]; ok {
		return sym
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

func (k FunctionKind) String() string {
	if name, ok := functionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FunctionKind(%d)", int(k))
}

// ParseFunctionKind maps a function name back to its kind.
func ParseFunctionKind(name string) (FunctionKind, bool) {
	for k, n := range functionNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// String methods

func (c *IntegerConstant) String() string {
	return strconv.FormatInt(c.Value, 10)
}

func (c *FloatingPointConstant) String() string {
	return formatFloat(c.Value)
}

func (v *Variable) String() string {
	return v.Name
}

func (b *BinaryNode) String() string {
	left := b.Left.String()
	right := b.Right.String()
	switch b.Op {
	case OpPow:
		return fmt.Sprintf("(%s)^(%s)", left, right)
	default:
		return fmt.Sprintf("(%s %s %s)", left, b.Op, right)
	}
}

func (f *FunctionNode) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Kind, strings.Join(args, ", "))
}

// LaTeX methods

func (c *IntegerConstant) LaTeX() string {
	return strconv.FormatInt(c.Value, 10)
}

func (c *FloatingPointConstant) LaTeX() string {
	return formatFloat(c.Value)
}

func (v *Variable) LaTeX() string {
	if len(v.Name) == 1 {
		return v.Name
	}
	return fmt.Sprintf("\\mathit{%s}", strings.ReplaceAll(v.Name, "_", `\_`))
}

func (b *BinaryNode) LaTeX() string {
	left := b.Left.LaTeX()
	right := b.Right.LaTeX()
	switch b.Op {
	case OpAdd:
		return fmt.Sprintf("{%s} + {%s}", left, right)
	case OpSub:
		return fmt.Sprintf("{%s} - {%s}", left, right)
	case OpMul:
		return fmt.Sprintf("{%s} \\cdot {%s}", left, right)
	case OpDiv:
		return fmt.Sprintf("\\frac{%s}{%s}", left, right)
	case OpPow:
		return fmt.Sprintf("{%s}^{%s}", left, right)
	default:
		return ""
	}
}

func (f *FunctionNode) LaTeX() string {
	arg := func(i int) string {
		if i < len(f.Args) {
			return f.Args[i].LaTeX()
		}
		return ""
	}
	switch f.Kind {
	case Sine:
		return fmt.Sprintf("\\sin{(%s)}", arg(0))
	case Cosine:
		return fmt.Sprintf("\\cos{(%s)}", arg(0))
	case NaturalLog:
		return fmt.Sprintf("\\ln{(%s)}", arg(0))
	case Log10:
		return fmt.Sprintf("\\log_{10}{(%s)}", arg(0))
	case LogN:
		return fmt.Sprintf("\\log_{%s}{(%s)}", arg(1), arg(0))
	default:
		return ""
	}
}
