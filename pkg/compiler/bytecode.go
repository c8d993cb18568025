package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/wildfunctions/formula/pkg/expr"
)

func init() {
	Register("bytecode", func() Backend { return bytecodeBackend{} })
}

// -----------------------------
// Instruction encoding
// -----------------------------

type opcode uint8

const (
	// opNop is reserved as the zero opcode so a zeroed instruction word does
	// nothing. The emitter never produces it.
	opNop opcode = iota

	opConst // push Consts[imm]
	opLoad  // push vars[Names[imm]]; fails if unbound

	// binary: pop right, pop left, push result
	opAdd
	opSub
	opMul
	opDiv
	opPow
	opLogN // pop base, pop value

	// unary: replace top
	opSin
	opCos
	opLn
	opLog10
)

var opcodeNames = [...]string{
	opNop:   "nop",
	opConst: "const",
	opLoad:  "load",
	opAdd:   "add",
	opSub:   "sub",
	opMul:   "mul",
	opDiv:   "div",
	opPow:   "pow",
	opLogN:  "logn",
	opSin:   "sin",
	opCos:   "cos",
	opLn:    "ln",
	opLog10: "log10",
}

func (op opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

var binaryOpcodes = map[expr.BinaryOp]opcode{
	expr.OpAdd: opAdd,
	expr.OpSub: opSub,
	expr.OpMul: opMul,
	expr.OpDiv: opDiv,
	expr.OpPow: opPow,
}

var functionOpcodes = map[expr.FunctionKind]opcode{
	expr.Sine:       opSin,
	expr.Cosine:     opCos,
	expr.NaturalLog: opLn,
	expr.Log10:      opLog10,
	expr.LogN:       opLogN,
}

const maxImm = 1<<24 - 1

// ErrProgramTooLarge is returned when a pool outgrows the operand encoding.
var ErrProgramTooLarge = errors.New("program exceeds operand limit")

// pack/unpack helpers
func pack(op opcode, imm uint32) uint32 { return uint32(op)<<24 | (imm & maxImm) }
func uop(i uint32) opcode               { return opcode(i >> 24) }
func uimm(i uint32) uint32              { return i & maxImm }

// -----------------------------
// Program
// -----------------------------

// Program is a compiled stack program. It is immutable once built and
// safe to Run concurrently.
type Program struct {
	Code     []uint32
	Consts   []float64
	Names    []string
	MaxStack int
}

// String returns a disassembly listing, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for pc, ins := range p.Code {
		op, imm := uop(ins), uimm(ins)
		switch op {
		case opConst:
			fmt.Fprintf(&sb, "%04d  %-6s %4d  ; %v\n", pc, op, imm, p.Consts[imm])
		case opLoad:
			fmt.Fprintf(&sb, "%04d  %-6s %4d  ; %s\n", pc, op, imm, p.Names[imm])
		default:
			fmt.Fprintf(&sb, "%04d  %s\n", pc, op)
		}
	}
	return sb.String()
}

// -----------------------------
// Emission
// -----------------------------

// emitter holds the working state of one compilation.
type emitter struct {
	prog   *Program
	consts map[uint64]uint32
	names  map[string]uint32
	depth  int
}

// CompileProgram emits the stack program for root.
func CompileProgram(root expr.Operation) (*Program, error) {
	e := &emitter{
		prog:   &Program{},
		consts: map[uint64]uint32{},
		names:  map[string]uint32{},
	}
	if err := e.emit(root); err != nil {
		return nil, err
	}
	if e.depth != 1 {
		return nil, errors.Errorf("emitted program leaves %d values on the stack", e.depth)
	}
	return e.prog, nil
}

func (e *emitter) emit(node expr.Operation) error {
	if expr.IsNil(node) {
		return expr.ErrNullOperation
	}

	switch n := node.(type) {
	case *expr.IntegerConstant:
		return e.emitConst(float64(n.Value))

	case *expr.FloatingPointConstant:
		return e.emitConst(n.Value)

	case *expr.Variable:
		idx, ok := e.names[n.Name]
		if !ok {
			if len(e.prog.Names) > maxImm {
				return ErrProgramTooLarge
			}
			idx = uint32(len(e.prog.Names))
			e.prog.Names = append(e.prog.Names, n.Name)
			e.names[n.Name] = idx
		}
		e.op(opLoad, idx, 1)
		return nil

	case *expr.BinaryNode:
		op, ok := binaryOpcodes[n.Op]
		if !ok {
			return &expr.UnsupportedOperationError{Kind: n.Op.String()}
		}
		if err := e.emit(n.Left); err != nil {
			return err
		}
		if err := e.emit(n.Right); err != nil {
			return err
		}
		e.op(op, 0, -1)
		return nil

	case *expr.FunctionNode:
		fn, err := lookupFunction(n)
		if err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := e.emit(a); err != nil {
				return err
			}
		}
		e.op(functionOpcodes[n.Kind], 0, 1-fn.arity)
		return nil

	default:
		return unsupportedNode(node)
	}
}

func (e *emitter) emitConst(v float64) error {
	bits := math.Float64bits(v)
	idx, ok := e.consts[bits]
	if !ok {
		if len(e.prog.Consts) > maxImm {
			return ErrProgramTooLarge
		}
		idx = uint32(len(e.prog.Consts))
		e.prog.Consts = append(e.prog.Consts, v)
		e.consts[bits] = idx
	}
	e.op(opConst, idx, 1)
	return nil
}

// op appends one instruction and tracks the stack depth it leaves behind.
func (e *emitter) op(op opcode, imm uint32, delta int) {
	e.prog.Code = append(e.prog.Code, pack(op, imm))
	e.depth += delta
	if e.depth > e.prog.MaxStack {
		e.prog.MaxStack = e.depth
	}
}

// -----------------------------
// Backend
// -----------------------------

type bytecodeBackend struct{}

func (bytecodeBackend) Name() string { return "bytecode" }

func (b bytecodeBackend) Compile(root expr.Operation) (Func, error) {
	prog, err := CompileProgram(root)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backend", b.Name())
	}
	if glog.V(5) {
		glog.V(5).Infof("Compiled %v to %d instructions (max stack %d) with the %s backend",
			root, len(prog.Code), prog.MaxStack, b.Name())
	}
	if glog.V(7) {
		glog.V(7).Infof("Program listing:\n%s", prog)
	}
	return prog.Run, nil
}
