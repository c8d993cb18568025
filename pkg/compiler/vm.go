package compiler

import (
	"math"

	"github.com/wildfunctions/formula/pkg/expr"
	"github.com/wildfunctions/formula/pkg/util/contract"
)

// smallStack is the depth served from a fixed array instead of the heap.
const smallStack = 16

// Run executes the program against vars. The value stack is local to the
// call.
func (p *Program) Run(vars expr.Binding) (float64, error) {
	var buf [smallStack]float64
	stack := buf[:0]
	if p.MaxStack > smallStack {
		stack = make([]float64, 0, p.MaxStack)
	}

	for pc, ins := range p.Code {
		sp := len(stack)
		switch op := uop(ins); op {
		case opNop:

		case opConst:
			stack = append(stack, p.Consts[uimm(ins)])

		case opLoad:
			v, err := vars.Lookup(p.Names[uimm(ins)])
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)

		case opAdd:
			stack[sp-2] = stack[sp-2] + stack[sp-1]
			stack = stack[:sp-1]
		case opSub:
			stack[sp-2] = stack[sp-2] - stack[sp-1]
			stack = stack[:sp-1]
		case opMul:
			stack[sp-2] = stack[sp-2] * stack[sp-1]
			stack = stack[:sp-1]
		case opDiv:
			stack[sp-2] = stack[sp-2] / stack[sp-1]
			stack = stack[:sp-1]
		case opPow:
			stack[sp-2] = math.Pow(stack[sp-2], stack[sp-1])
			stack = stack[:sp-1]
		case opLogN:
			stack[sp-2] = logN(stack[sp-2], stack[sp-1])
			stack = stack[:sp-1]

		case opSin:
			stack[sp-1] = math.Sin(stack[sp-1])
		case opCos:
			stack[sp-1] = math.Cos(stack[sp-1])
		case opLn:
			stack[sp-1] = math.Log(stack[sp-1])
		case opLog10:
			stack[sp-1] = math.Log10(stack[sp-1])

		default:
			contract.Failf("unknown opcode %v at %04d", op, pc)
		}
	}

	contract.Assertf(len(stack) == 1, "program ended with %d values on the stack", len(stack))
	return stack[0], nil
}
