package compile

import (
	"github.com/wsclang/wsc/internal/asm"
	"github.com/wsclang/wsc/internal/asm/arm64"
)

// Shared runtime layout. The heap and the B tape are the same statically
// reserved region, addressed from X29; the W software call stack grows
// through X28. buf is the I/O scratch the syscall thunks stage bytes in.
const (
	bufSymbol       = "buf"
	heapSymbol      = "array"
	callStackSymbol = "cstack"

	bufSize       = 20
	heapSize      = 30000
	callStackSize = 8192
)

// Darwin ARM64 syscall numbers, invoked with the number in X16.
const (
	sysExit  = 1
	sysRead  = 3
	sysWrite = 4
)

const (
	labelStart      = "_start"
	labelOutputChar = "_output_char"
	labelOutputNum  = "_output_num"
	labelInputChar  = "_input_char"
	labelInputNum   = "_input_num"
)

var (
	x0  = arm64.Reg64(arm64.X0)
	x1  = arm64.Reg64(arm64.X1)
	x2  = arm64.Reg64(arm64.X2)
	x3  = arm64.Reg64(arm64.X3)
	x4  = arm64.Reg64(arm64.X4)
	x5  = arm64.Reg64(arm64.X5)
	x16 = arm64.Reg64(arm64.X16)
	x28 = arm64.Reg64(arm64.X28)
	x29 = arm64.Reg64(arm64.X29)
	sp  = arm64.Reg64(arm64.SP)

	w0 = arm64.Reg32(arm64.X0)
	w1 = arm64.Reg32(arm64.X1)
	w2 = arm64.Reg32(arm64.X2)
	w5 = arm64.Reg32(arm64.X5)
)

// prologue emits the data reservations, the runtime I/O thunks, and _start,
// which anchors X29 at the heap, X28 at the call stack, and seeds the
// operand stack with the zero sentinel (the B backend reuses that slot as
// its tape index).
func prologue() asm.Fragment {
	return asm.Group{
		arm64.Instrs(
			arm64.DataSection{},
			arm64.Balign{N: 4},
			arm64.Reserve{Name: bufSymbol, Size: bufSize},
			arm64.Balign{N: 4},
			arm64.Reserve{Name: heapSymbol, Size: heapSize},
			arm64.Balign{N: 8},
			arm64.Reserve{Name: callStackSymbol, Size: callStackSize},
			arm64.TextSection{},
			arm64.Global{Sym: labelStart},
			arm64.Balign{N: 16},
		),
		outputCharThunk(),
		outputNumThunk(),
		inputCharThunk(),
		inputNumThunk(),
		asm.MarkLabel(labelStart),
		arm64.SymbolAddress(x29, heapSymbol),
		arm64.SymbolAddress(x28, callStackSymbol),
		arm64.Instrs(
			arm64.MovImm{Rd: x0, Imm: 0},
			arm64.Psh{Rt: x0},
		),
	}
}

// epilogue terminates the process with exit(0).
func epilogue() asm.Fragment {
	return arm64.Instrs(
		arm64.MovImm{Rd: x0, Imm: 0},
		arm64.MovImm{Rd: x16, Imm: sysExit},
		arm64.Svc{},
	)
}

// outputCharThunk writes the byte in W0 to stdout via buf.
func outputCharThunk() asm.Fragment {
	return asm.Group{
		asm.MarkLabel(labelOutputChar),
		arm64.SymbolAddress(x1, bufSymbol),
		arm64.Instrs(
			arm64.Strb{Rt: w0, Rn: x1},
			arm64.MovImm{Rd: x0, Imm: 1},
			arm64.MovImm{Rd: x2, Imm: 1},
			arm64.MovImm{Rd: x16, Imm: sysWrite},
			arm64.Svc{},
			arm64.Ret{},
		),
	}
}

// outputNumThunk renders the signed value in X0 as decimal, filling buf
// backwards from its end, and writes the digits in one syscall.
func outputNumThunk() asm.Fragment {
	const (
		digits = labelOutputNum + "_digits"
		flush  = labelOutputNum + "_flush"
	)
	return asm.Group{
		asm.MarkLabel(labelOutputNum),
		arm64.SymbolAddress(x1, bufSymbol),
		arm64.Instrs(
			arm64.AddImm{Rd: x1, Rn: x1, Imm: bufSize},
			arm64.MovImm{Rd: x3, Imm: 10},
			arm64.MovImm{Rd: x4, Imm: 0},
			arm64.CmpImm{Rn: x0, Imm: 0},
		),
		arm64.CondJump(arm64.CondGE, digits),
		arm64.Instrs(
			arm64.MovImm{Rd: x4, Imm: 1},
			arm64.Neg{Rd: x0, Rn: x0},
		),
		asm.MarkLabel(digits),
		arm64.Instrs(
			arm64.UDiv{Rd: x2, Rn: x0, Rm: x3},
			arm64.MSub{Rd: x5, Rn: x2, Rm: x3, Ra: x0},
			arm64.AddImm{Rd: x5, Rn: x5, Imm: '0'},
			arm64.SubImm{Rd: x1, Rn: x1, Imm: 1},
			arm64.Strb{Rt: w5, Rn: x1},
			arm64.MovReg{Rd: x0, Rn: x2},
			arm64.CmpImm{Rn: x0, Imm: 0},
		),
		arm64.CondJump(arm64.CondNE, digits),
		arm64.Instrs(arm64.CmpImm{Rn: x4, Imm: 0}),
		arm64.CondJump(arm64.CondEQ, flush),
		arm64.Instrs(
			arm64.MovImm{Rd: x5, Imm: '-'},
			arm64.SubImm{Rd: x1, Rn: x1, Imm: 1},
			arm64.Strb{Rt: w5, Rn: x1},
		),
		asm.MarkLabel(flush),
		arm64.SymbolAddress(x2, bufSymbol),
		arm64.Instrs(
			arm64.AddImm{Rd: x2, Rn: x2, Imm: bufSize},
			arm64.SubReg{Rd: x2, Rn: x2, Rm: x1},
			arm64.MovImm{Rd: x0, Imm: 1},
			arm64.MovImm{Rd: x16, Imm: sysWrite},
			arm64.Svc{},
			arm64.Ret{},
		),
	}
}

// inputCharThunk reads one byte from stdin into W0, or -1 on end of input.
func inputCharThunk() asm.Fragment {
	const ok = labelInputChar + "_ok"
	return asm.Group{
		asm.MarkLabel(labelInputChar),
		arm64.SymbolAddress(x1, bufSymbol),
		arm64.Instrs(
			arm64.MovImm{Rd: x0, Imm: 0},
			arm64.MovImm{Rd: x2, Imm: 1},
			arm64.MovImm{Rd: x16, Imm: sysRead},
			arm64.Svc{},
			arm64.CmpImm{Rn: x0, Imm: 1},
		),
		arm64.CondJump(arm64.CondEQ, ok),
		arm64.Instrs(
			arm64.MovImm{Rd: x0, Imm: -1},
			arm64.Ret{},
		),
		asm.MarkLabel(ok),
		arm64.Instrs(
			arm64.Ldrb{Rt: w0, Rn: x1},
			arm64.Ret{},
		),
	}
}

// inputNumThunk reads bytes until a linefeed or end of input and parses an
// optional minus sign followed by decimal digits into X0.
func inputNumThunk() asm.Fragment {
	const (
		next  = labelInputNum + "_next"
		digit = labelInputNum + "_digit"
		done  = labelInputNum + "_done"
		ret   = labelInputNum + "_ret"
	)
	return asm.Group{
		asm.MarkLabel(labelInputNum),
		arm64.Instrs(
			arm64.MovImm{Rd: x4, Imm: 0},
			arm64.MovImm{Rd: x5, Imm: 0},
		),
		asm.MarkLabel(next),
		arm64.SymbolAddress(x1, bufSymbol),
		arm64.Instrs(
			arm64.MovImm{Rd: x0, Imm: 0},
			arm64.MovImm{Rd: x2, Imm: 1},
			arm64.MovImm{Rd: x16, Imm: sysRead},
			arm64.Svc{},
			arm64.CmpImm{Rn: x0, Imm: 1},
		),
		arm64.CondJump(arm64.CondNE, done),
		arm64.Instrs(
			arm64.Ldrb{Rt: w2, Rn: x1},
			arm64.CmpImm{Rn: x2, Imm: '\n'},
		),
		arm64.CondJump(arm64.CondEQ, done),
		arm64.Instrs(arm64.CmpImm{Rn: x2, Imm: '-'}),
		arm64.CondJump(arm64.CondNE, digit),
		arm64.Instrs(arm64.MovImm{Rd: x5, Imm: 1}),
		arm64.Jump(next),
		asm.MarkLabel(digit),
		arm64.Instrs(
			arm64.SubImm{Rd: x2, Rn: x2, Imm: '0'},
			arm64.MovImm{Rd: x3, Imm: 10},
			arm64.Mul{Rd: x4, Rn: x4, Rm: x3},
			arm64.AddReg{Rd: x4, Rn: x4, Rm: x2},
		),
		arm64.Jump(next),
		asm.MarkLabel(done),
		arm64.Instrs(arm64.CmpImm{Rn: x5, Imm: 0}),
		arm64.CondJump(arm64.CondEQ, ret),
		arm64.Instrs(arm64.Neg{Rd: x4, Rn: x4}),
		asm.MarkLabel(ret),
		arm64.Instrs(
			arm64.MovReg{Rd: x0, Rn: x4},
			arm64.Ret{},
		),
	}
}
