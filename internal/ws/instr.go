// Package ws defines the W instruction set and the validated program
// container shared by the interpreter and the compiler.
package ws

import (
	"fmt"
	"math/big"
)

type Op uint8

const (
	OpPush Op = iota
	OpDup
	OpSwap
	OpDiscard
	OpCopy
	OpSlide
	OpArith
	OpLabel
	OpCall
	OpJump
	OpBranch
	OpReturn
	OpEnd
	OpStore
	OpRetrieve
	OpOutputChar
	OpOutputNum
	OpInputChar
	OpInputNum
)

type ArithOp uint8

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

func (a ArithOp) String() string {
	switch a {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Mod:
		return "mod"
	default:
		return fmt.Sprintf("arith%d", a)
	}
}

// Cond selects the branch test: zero or strictly negative top of stack.
type Cond uint8

const (
	CondZero Cond = iota
	CondNeg
)

func (c Cond) String() string {
	if c == CondNeg {
		return "neg"
	}
	return "zero"
}

// Instr is one W instruction. Only the fields relevant to Op are populated.
type Instr struct {
	Op    Op
	Num   *big.Int // Push operand
	Depth int      // Copy / Slide argument
	Arith ArithOp
	Cond  Cond
	Label string
}

// Constructors keep instruction-list literals readable in tests and the
// generator.

func Push(n int64) Instr       { return Instr{Op: OpPush, Num: big.NewInt(n)} }
func PushBig(n *big.Int) Instr { return Instr{Op: OpPush, Num: n} }
func Dup() Instr               { return Instr{Op: OpDup} }
func Swap() Instr              { return Instr{Op: OpSwap} }
func Discard() Instr           { return Instr{Op: OpDiscard} }
func Copy(k int) Instr         { return Instr{Op: OpCopy, Depth: k} }
func Slide(k int) Instr        { return Instr{Op: OpSlide, Depth: k} }
func Arith(op ArithOp) Instr   { return Instr{Op: OpArith, Arith: op} }
func Label(l string) Instr     { return Instr{Op: OpLabel, Label: l} }
func Call(l string) Instr      { return Instr{Op: OpCall, Label: l} }
func Jump(l string) Instr      { return Instr{Op: OpJump, Label: l} }
func Branch(c Cond, l string) Instr {
	return Instr{Op: OpBranch, Cond: c, Label: l}
}
func Return() Instr     { return Instr{Op: OpReturn} }
func End() Instr        { return Instr{Op: OpEnd} }
func Store() Instr      { return Instr{Op: OpStore} }
func Retrieve() Instr   { return Instr{Op: OpRetrieve} }
func OutputChar() Instr { return Instr{Op: OpOutputChar} }
func OutputNum() Instr  { return Instr{Op: OpOutputNum} }
func InputChar() Instr  { return Instr{Op: OpInputChar} }
func InputNum() Instr   { return Instr{Op: OpInputNum} }

func (in Instr) String() string {
	switch in.Op {
	case OpPush:
		return fmt.Sprintf("push %s", in.Num)
	case OpDup:
		return "dup"
	case OpSwap:
		return "swap"
	case OpDiscard:
		return "discard"
	case OpCopy:
		return fmt.Sprintf("copy %d", in.Depth)
	case OpSlide:
		return fmt.Sprintf("slide %d", in.Depth)
	case OpArith:
		return fmt.Sprintf("arith %s", in.Arith)
	case OpLabel:
		return fmt.Sprintf("label %s", in.Label)
	case OpCall:
		return fmt.Sprintf("call %s", in.Label)
	case OpJump:
		return fmt.Sprintf("jump %s", in.Label)
	case OpBranch:
		return fmt.Sprintf("branch %s %s", in.Cond, in.Label)
	case OpReturn:
		return "return"
	case OpEnd:
		return "end"
	case OpStore:
		return "store"
	case OpRetrieve:
		return "retrieve"
	case OpOutputChar:
		return "outchar"
	case OpOutputNum:
		return "outnum"
	case OpInputChar:
		return "inchar"
	case OpInputNum:
		return "innum"
	default:
		return fmt.Sprintf("op%d", in.Op)
	}
}

// HasLabel reports whether the instruction carries a control-flow target.
func (in Instr) HasLabel() bool {
	switch in.Op {
	case OpCall, OpJump, OpBranch:
		return true
	default:
		return false
	}
}
