package compile

import (
	"strconv"

	"github.com/wsclang/wsc/internal/asm"
	"github.com/wsclang/wsc/internal/asm/arm64"
	"github.com/wsclang/wsc/internal/bf"
)

// B lowers a B instruction tree to ARM64. The tape is the shared array
// region with byte cells; the data pointer lives in the operand-stack slot
// the prologue seeds with zero, kept as an index so every access is
// X29-relative.
func B(prog []bf.Instr) ([]arm64.Instr, error) {
	frags := asm.Group{prologue()}
	body, err := lowerBlock(prog, "")
	if err != nil {
		return nil, err
	}
	frags = append(frags, body...)
	frags = append(frags, epilogue())
	return arm64.EmitProgram(frags)
}

// lowerBlock threads the lexical path index through nested loops so every
// loop in the program owns a distinct while_<idx>/whileend_<idx> pair.
func lowerBlock(list []bf.Instr, path string) (asm.Group, error) {
	var g asm.Group
	for idx, in := range list {
		id := strconv.Itoa(idx)
		if path != "" {
			id = path + "." + id
		}
		frag, err := lowerB(in, id)
		if err != nil {
			return nil, err
		}
		g = append(g, frag)
	}
	return g, nil
}

func lowerB(in bf.Instr, id string) (asm.Fragment, error) {
	switch in.Op {
	case bf.OpIncPtr:
		return bComment("incptr", arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp},
			arm64.AddImm{Rd: x0, Rn: x0, Imm: 1},
			arm64.Str{Rt: x0, Rn: sp},
		)), nil

	case bf.OpDecPtr:
		return bComment("decptr", arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp},
			arm64.SubImm{Rd: x0, Rn: x0, Imm: 1},
			arm64.Str{Rt: x0, Rn: sp},
		)), nil

	case bf.OpIncByte:
		return bComment("incbyte", arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp},
			arm64.LdrbReg{Rt: w1, Rn: x29, Rm: x0},
			arm64.AddImm{Rd: x1, Rn: x1, Imm: 1},
			arm64.StrbReg{Rt: w1, Rn: x29, Rm: x0},
		)), nil

	case bf.OpDecByte:
		return bComment("decbyte", arm64.Instrs(
			arm64.Ldr{Rt: x0, Rn: sp},
			arm64.LdrbReg{Rt: w1, Rn: x29, Rm: x0},
			arm64.SubImm{Rd: x1, Rn: x1, Imm: 1},
			arm64.StrbReg{Rt: w1, Rn: x29, Rm: x0},
		)), nil

	case bf.OpOutput:
		return bComment("output", asm.Group{
			arm64.Instrs(
				arm64.Ldr{Rt: x0, Rn: sp},
				arm64.LdrbReg{Rt: w0, Rn: x29, Rm: x0},
			),
			arm64.Call(labelOutputChar),
		}), nil

	case bf.OpInput:
		return bComment("input", asm.Group{
			arm64.Call(labelInputChar),
			arm64.Instrs(
				arm64.Ldr{Rt: x1, Rn: sp},
				arm64.StrbReg{Rt: w0, Rn: x29, Rm: x1},
			),
		}), nil

	case bf.OpWhile:
		head := asm.Label("while_" + id)
		tail := asm.Label("whileend_" + id)
		body, err := lowerBlock(in.Body, id)
		if err != nil {
			return nil, err
		}
		g := asm.Group{
			arm64.Instrs(arm64.Comment{Text: "while " + id}),
			asm.MarkLabel(head),
			arm64.Instrs(
				arm64.Ldr{Rt: x0, Rn: sp},
				arm64.LdrbReg{Rt: w1, Rn: x29, Rm: x0},
				arm64.CmpImm{Rn: x1, Imm: 0},
			),
			arm64.CondJump(arm64.CondEQ, tail),
		}
		g = append(g, body...)
		g = append(g,
			arm64.Jump(head),
			asm.MarkLabel(tail),
		)
		return g, nil
	}
	return bComment("nop", asm.Group{}), nil
}

func bComment(name string, body asm.Fragment) asm.Fragment {
	return asm.Group{
		arm64.Instrs(arm64.Comment{Text: name}),
		body,
	}
}
