package arm64

import (
	"fmt"
	"strings"
)

// Render is the sole source of truth for textual syntax. Every instruction
// value maps to exactly one non-empty line of GNU/Apple assembler syntax.
// Labels and directives sit in column zero; instructions are tab-indented.
func Render(in Instr) string {
	switch i := in.(type) {
	case DataSection:
		return ".data"
	case TextSection:
		return ".text"
	case Balign:
		return fmt.Sprintf(".balign %d", i.N)
	case Reserve:
		return fmt.Sprintf("%s: .skip %d", i.Name, i.Size)
	case Global:
		return fmt.Sprintf(".global %s", i.Sym)
	case LabelDef:
		return fmt.Sprintf("%s:", i.Name)
	case Comment:
		return fmt.Sprintf("\t; %s", i.Text)
	case MovImm:
		return fmt.Sprintf("\tmov %s, #%d", i.Rd, i.Imm)
	case MovK:
		return fmt.Sprintf("\tmovk %s, #%d, lsl #%d", i.Rd, i.Imm, i.Shift)
	case MovReg:
		return fmt.Sprintf("\tmov %s, %s", i.Rd, i.Rn)
	case AddImm:
		return fmt.Sprintf("\tadd %s, %s, #%d", i.Rd, i.Rn, i.Imm)
	case SubImm:
		return fmt.Sprintf("\tsub %s, %s, #%d", i.Rd, i.Rn, i.Imm)
	case AddReg:
		return fmt.Sprintf("\tadd %s, %s, %s", i.Rd, i.Rn, i.Rm)
	case SubReg:
		return fmt.Sprintf("\tsub %s, %s, %s", i.Rd, i.Rn, i.Rm)
	case Mul:
		return fmt.Sprintf("\tmul %s, %s, %s", i.Rd, i.Rn, i.Rm)
	case SDiv:
		return fmt.Sprintf("\tsdiv %s, %s, %s", i.Rd, i.Rn, i.Rm)
	case UDiv:
		return fmt.Sprintf("\tudiv %s, %s, %s", i.Rd, i.Rn, i.Rm)
	case MSub:
		return fmt.Sprintf("\tmsub %s, %s, %s, %s", i.Rd, i.Rn, i.Rm, i.Ra)
	case Neg:
		return fmt.Sprintf("\tneg %s, %s", i.Rd, i.Rn)
	case Lsl:
		return fmt.Sprintf("\tlsl %s, %s, #%d", i.Rd, i.Rn, i.Shift)
	case CmpImm:
		return fmt.Sprintf("\tcmp %s, #%d", i.Rn, i.Imm)
	case CmpReg:
		return fmt.Sprintf("\tcmp %s, %s", i.Rn, i.Rm)
	case B:
		return fmt.Sprintf("\tb %s", i.Target)
	case BCond:
		return fmt.Sprintf("\tb.%s %s", i.Cond, i.Target)
	case Bl:
		return fmt.Sprintf("\tbl %s", i.Target)
	case Br:
		return fmt.Sprintf("\tbr %s", i.Rn)
	case Ret:
		return "\tret"
	case Svc:
		return fmt.Sprintf("\tsvc #%d", i.Imm)
	case Adr:
		return fmt.Sprintf("\tadr %s, %s", i.Rd, i.Target)
	case AdrPage:
		return fmt.Sprintf("\tadrp %s, %s@PAGE", i.Rd, i.Sym)
	case AddPageOff:
		return fmt.Sprintf("\tadd %s, %s, %s@PAGEOFF", i.Rd, i.Rd, i.Sym)
	case Ldr:
		return fmt.Sprintf("\tldr %s, %s", i.Rt, baseOff(i.Rn, i.Off))
	case Str:
		return fmt.Sprintf("\tstr %s, %s", i.Rt, baseOff(i.Rn, i.Off))
	case LdrPre:
		return fmt.Sprintf("\tldr %s, [%s, #%d]!", i.Rt, i.Rn, i.Off)
	case StrPost:
		return fmt.Sprintf("\tstr %s, [%s], #%d", i.Rt, i.Rn, i.Off)
	case LdrReg:
		return fmt.Sprintf("\tldr %s, [%s, %s]", i.Rt, i.Rn, i.Rm)
	case StrReg:
		return fmt.Sprintf("\tstr %s, [%s, %s]", i.Rt, i.Rn, i.Rm)
	case Ldrb:
		return fmt.Sprintf("\tldrb %s, %s", i.Rt, baseOff(i.Rn, i.Off))
	case Strb:
		return fmt.Sprintf("\tstrb %s, %s", i.Rt, baseOff(i.Rn, i.Off))
	case LdrbReg:
		return fmt.Sprintf("\tldrb %s, [%s, %s]", i.Rt, i.Rn, i.Rm)
	case StrbReg:
		return fmt.Sprintf("\tstrb %s, [%s, %s]", i.Rt, i.Rn, i.Rm)
	case Psh:
		return fmt.Sprintf("\tstr %s, [sp, #-16]!", i.Rt)
	case Pop:
		return fmt.Sprintf("\tldr %s, [sp], #16", i.Rt)
	default:
		return fmt.Sprintf("\t; unrenderable %T", in)
	}
}

func baseOff(rn Reg, off int32) string {
	if off == 0 {
		return fmt.Sprintf("[%s]", rn)
	}
	return fmt.Sprintf("[%s, #%d]", rn, off)
}

// RenderProgram renders an instruction list to a complete assembly file.
func RenderProgram(instrs []Instr) string {
	var sb strings.Builder
	for _, in := range instrs {
		sb.WriteString(Render(in))
		sb.WriteByte('\n')
	}
	return sb.String()
}
