// Package compile lowers validated W programs and B instruction trees to
// ARM64 instruction lists. The output is a pure value; rendering to text is
// the printer's job.
package compile

import (
	"errors"
	"fmt"

	"github.com/wsclang/wsc/internal/asm"
	"github.com/wsclang/wsc/internal/asm/arm64"
	"github.com/wsclang/wsc/internal/ws"
)

var (
	ErrBadLabel       = errors.New("label not expressible in assembly")
	ErrImmediateRange = errors.New("push operand exceeds 64 bits")
)

// wLabelPrefix keeps source-level labels out of the namespaces the emitter
// and the runtime mint labels in.
const wLabelPrefix = "w_"

// slotSize is the byte width of one operand-stack slot; SP stays 16-byte
// aligned by construction.
const slotSize = 16

// heapShift scales a W heap address to its 8-byte cell offset in array.
const heapShift = 3

type wEmitter struct {
	retID int
}

// W lowers a validated program to a complete ARM64 instruction list,
// prologue and epilogue included. Each W instruction contributes a commented
// anchor line followed by its expansion.
func W(prog *ws.Program) ([]arm64.Instr, error) {
	e := &wEmitter{}
	frags := asm.Group{prologue()}
	for _, in := range prog.Instrs() {
		frag, err := e.lower(in)
		if err != nil {
			return nil, err
		}
		frags = append(frags, frag)
	}
	frags = append(frags, epilogue())
	return arm64.EmitProgram(frags)
}

func wLabel(source string) (asm.Label, error) {
	if source == "" {
		return "", fmt.Errorf("compile: %w: empty label", ErrBadLabel)
	}
	for _, r := range source {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '_':
		default:
			return "", fmt.Errorf("compile: %w: %q", ErrBadLabel, source)
		}
	}
	return asm.Label(wLabelPrefix + source), nil
}

func (e *wEmitter) retLabel() asm.Label {
	e.retID++
	return asm.Label(fmt.Sprintf("__w_ret_%d", e.retID))
}

func anchor(in ws.Instr) asm.Fragment {
	return arm64.Instrs(arm64.Comment{Text: in.String()})
}

func (e *wEmitter) lower(in ws.Instr) (asm.Fragment, error) {
	switch in.Op {
	case ws.OpPush:
		if !in.Num.IsInt64() {
			return nil, fmt.Errorf("compile: %w: %s", ErrImmediateRange, in.Num)
		}
		return asm.Group{
			anchor(in),
			arm64.MovImmediate(x0, in.Num.Int64()),
			arm64.Instrs(arm64.Psh{Rt: x0}),
		}, nil

	case ws.OpDup:
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp},
			arm64.Psh{Rt: x0},
		)}, nil

	case ws.OpSwap:
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp},
			arm64.Ldr{Rt: x1, Rn: sp, Off: slotSize},
			arm64.Str{Rt: x1, Rn: sp},
			arm64.Str{Rt: x0, Rn: sp, Off: slotSize},
		)}, nil

	case ws.OpDiscard:
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.AddImm{Rd: sp, Rn: sp, Imm: slotSize},
		)}, nil

	case ws.OpCopy:
		if in.Depth < 0 {
			return nil, fmt.Errorf("compile: copy depth %d negative", in.Depth)
		}
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp, Off: int32(in.Depth) * slotSize},
			arm64.Psh{Rt: x0},
		)}, nil

	case ws.OpSlide:
		if in.Depth < 0 {
			return nil, fmt.Errorf("compile: slide depth %d negative", in.Depth)
		}
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.Pop{Rt: x0},
			arm64.AddImm{Rd: sp, Rn: sp, Imm: int32(in.Depth) * slotSize},
			arm64.Psh{Rt: x0},
		)}, nil

	case ws.OpArith:
		body, err := arithBody(in.Arith)
		if err != nil {
			return nil, err
		}
		seq := []arm64.Instr{
			arm64.Pop{Rt: x1},
			arm64.Pop{Rt: x0},
		}
		seq = append(seq, body...)
		seq = append(seq, arm64.Psh{Rt: x0})
		return asm.Group{anchor(in), arm64.Instrs(seq...)}, nil

	case ws.OpLabel:
		l, err := wLabel(in.Label)
		if err != nil {
			return nil, err
		}
		return asm.Group{anchor(in), asm.MarkLabel(l)}, nil

	case ws.OpCall:
		l, err := wLabel(in.Label)
		if err != nil {
			return nil, err
		}
		ret := e.retLabel()
		return asm.Group{
			anchor(in),
			arm64.AdrLabel(x0, ret),
			arm64.Instrs(arm64.StrPost{Rt: x0, Rn: x28, Off: 8}),
			arm64.Jump(l),
			asm.MarkLabel(ret),
		}, nil

	case ws.OpJump:
		l, err := wLabel(in.Label)
		if err != nil {
			return nil, err
		}
		return asm.Group{anchor(in), arm64.Jump(l)}, nil

	case ws.OpBranch:
		l, err := wLabel(in.Label)
		if err != nil {
			return nil, err
		}
		cond := arm64.CondEQ
		if in.Cond == ws.CondNeg {
			cond = arm64.CondMI
		}
		return asm.Group{
			anchor(in),
			arm64.Instrs(
				arm64.Pop{Rt: x0},
				arm64.CmpImm{Rn: x0, Imm: 0},
			),
			arm64.CondJump(cond, l),
		}, nil

	case ws.OpReturn:
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.LdrPre{Rt: x0, Rn: x28, Off: -8},
			arm64.Br{Rn: x0},
		)}, nil

	case ws.OpEnd:
		return asm.Group{anchor(in), epilogue()}, nil

	case ws.OpStore:
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.Pop{Rt: x1},
			arm64.Pop{Rt: x0},
			arm64.Lsl{Rd: x0, Rn: x0, Shift: heapShift},
			arm64.StrReg{Rt: x1, Rn: x29, Rm: x0},
		)}, nil

	case ws.OpRetrieve:
		return asm.Group{anchor(in), arm64.Instrs(
			arm64.Pop{Rt: x0},
			arm64.Lsl{Rd: x0, Rn: x0, Shift: heapShift},
			arm64.LdrReg{Rt: x0, Rn: x29, Rm: x0},
			arm64.Psh{Rt: x0},
		)}, nil

	case ws.OpOutputChar:
		return asm.Group{
			anchor(in),
			arm64.Instrs(arm64.Pop{Rt: x0}),
			arm64.Call(labelOutputChar),
		}, nil

	case ws.OpOutputNum:
		return asm.Group{
			anchor(in),
			arm64.Instrs(arm64.Pop{Rt: x0}),
			arm64.Call(labelOutputNum),
		}, nil

	case ws.OpInputChar:
		// The address stays on the operand stack across the thunk call.
		return asm.Group{
			anchor(in),
			arm64.Call(labelInputChar),
			arm64.Instrs(
				arm64.Pop{Rt: x1},
				arm64.Lsl{Rd: x1, Rn: x1, Shift: heapShift},
				arm64.StrReg{Rt: x0, Rn: x29, Rm: x1},
			),
		}, nil

	case ws.OpInputNum:
		return asm.Group{
			anchor(in),
			arm64.Call(labelInputNum),
			arm64.Instrs(
				arm64.Pop{Rt: x1},
				arm64.Lsl{Rd: x1, Rn: x1, Shift: heapShift},
				arm64.StrReg{Rt: x0, Rn: x29, Rm: x1},
			),
		}, nil

	default:
		return nil, fmt.Errorf("compile: unknown opcode %d", in.Op)
	}
}

// arithBody operates on x0 (left) and x1 (right), leaving the result in x0.
// Division is truncated toward zero, matching the interpreter.
func arithBody(op ws.ArithOp) ([]arm64.Instr, error) {
	switch op {
	case ws.Add:
		return []arm64.Instr{arm64.AddReg{Rd: x0, Rn: x0, Rm: x1}}, nil
	case ws.Sub:
		return []arm64.Instr{arm64.SubReg{Rd: x0, Rn: x0, Rm: x1}}, nil
	case ws.Mul:
		return []arm64.Instr{arm64.Mul{Rd: x0, Rn: x0, Rm: x1}}, nil
	case ws.Div:
		return []arm64.Instr{arm64.SDiv{Rd: x0, Rn: x0, Rm: x1}}, nil
	case ws.Mod:
		return []arm64.Instr{
			arm64.SDiv{Rd: x2, Rn: x0, Rm: x1},
			arm64.MSub{Rd: x0, Rn: x2, Rm: x1, Ra: x0},
		}, nil
	default:
		return nil, fmt.Errorf("compile: unknown arithmetic op %d", op)
	}
}
