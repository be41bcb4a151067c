package arm64

import "github.com/wsclang/wsc/internal/asm"

// Instr is a single line of the generated program: one machine instruction,
// directive, label definition, or comment. Instructions are plain values;
// rendering to text happens exclusively in Render.
type Instr interface {
	isInstr()
}

// Directives and storage reservations.

type DataSection struct{}
type TextSection struct{}

type Balign struct{ N int }

// Reserve declares a named zero-initialized region: "name: .skip size".
type Reserve struct {
	Name string
	Size int
}

type Global struct{ Sym string }

// LabelDef marks a branch target: "name:".
type LabelDef struct{ Name asm.Label }

// Comment is an anchor line: "; text".
type Comment struct{ Text string }

// Data movement.

type MovImm struct {
	Rd  Reg
	Imm int64
}

// MovK patches a 16-bit chunk: "movk xN, #imm, lsl #shift".
type MovK struct {
	Rd    Reg
	Imm   uint16
	Shift uint8
}

type MovReg struct{ Rd, Rn Reg }

// Arithmetic.

type AddImm struct {
	Rd, Rn Reg
	Imm    int32
}

type SubImm struct {
	Rd, Rn Reg
	Imm    int32
}

type AddReg struct{ Rd, Rn, Rm Reg }
type SubReg struct{ Rd, Rn, Rm Reg }
type Mul struct{ Rd, Rn, Rm Reg }
type SDiv struct{ Rd, Rn, Rm Reg }
type UDiv struct{ Rd, Rn, Rm Reg }

// MSub computes Rd = Ra - Rn*Rm.
type MSub struct{ Rd, Rn, Rm, Ra Reg }

type Neg struct{ Rd, Rn Reg }

type Lsl struct {
	Rd, Rn Reg
	Shift  uint8
}

// Compare and branch.

type CmpImm struct {
	Rn  Reg
	Imm int32
}

type CmpReg struct{ Rn, Rm Reg }

type B struct{ Target asm.Label }

type BCond struct {
	Cond   Cond
	Target asm.Label
}

type Bl struct{ Target asm.Label }
type Br struct{ Rn Reg }
type Ret struct{}

type Svc struct{ Imm uint16 }

// Address formation.

// Adr loads a nearby label address: "adr xN, target".
type Adr struct {
	Rd     Reg
	Target asm.Label
}

// AdrPage / AddPageOff form a symbol address in two steps:
// "adrp xN, sym@PAGE" then "add xN, xN, sym@PAGEOFF".
type AdrPage struct {
	Rd  Reg
	Sym string
}

type AddPageOff struct {
	Rd  Reg
	Sym string
}

// Loads and stores. Off is a signed byte offset from the base register.

type Ldr struct {
	Rt, Rn Reg
	Off    int32
}

type Str struct {
	Rt, Rn Reg
	Off    int32
}

// LdrPre is a pre-indexed load: "ldr xT, [xN, #off]!".
type LdrPre struct {
	Rt, Rn Reg
	Off    int32
}

// StrPost is a post-indexed store: "str xT, [xN], #off".
type StrPost struct {
	Rt, Rn Reg
	Off    int32
}

// LdrReg / StrReg use a register offset: "ldr xT, [xN, xM]".
type LdrReg struct{ Rt, Rn, Rm Reg }
type StrReg struct{ Rt, Rn, Rm Reg }

// Byte-width loads and stores.

type Ldrb struct {
	Rt, Rn Reg
	Off    int32
}

type Strb struct {
	Rt, Rn Reg
	Off    int32
}

type LdrbReg struct{ Rt, Rn, Rm Reg }
type StrbReg struct{ Rt, Rn, Rm Reg }

// Psh and Pop are the operand-stack pseudo-ops: a 16-byte aligned
// pre-indexed store / post-indexed load on SP.

type Psh struct{ Rt Reg }
type Pop struct{ Rt Reg }

func (DataSection) isInstr() {}
func (TextSection) isInstr() {}
func (Balign) isInstr()      {}
func (Reserve) isInstr()     {}
func (Global) isInstr()      {}
func (LabelDef) isInstr()    {}
func (Comment) isInstr()     {}
func (MovImm) isInstr()      {}
func (MovK) isInstr()        {}
func (MovReg) isInstr()      {}
func (AddImm) isInstr()      {}
func (SubImm) isInstr()      {}
func (AddReg) isInstr()      {}
func (SubReg) isInstr()      {}
func (Mul) isInstr()         {}
func (SDiv) isInstr()        {}
func (UDiv) isInstr()        {}
func (MSub) isInstr()        {}
func (Neg) isInstr()         {}
func (Lsl) isInstr()         {}
func (CmpImm) isInstr()      {}
func (CmpReg) isInstr()      {}
func (B) isInstr()           {}
func (BCond) isInstr()       {}
func (Bl) isInstr()          {}
func (Br) isInstr()          {}
func (Ret) isInstr()         {}
func (Svc) isInstr()         {}
func (Adr) isInstr()         {}
func (AdrPage) isInstr()     {}
func (AddPageOff) isInstr()  {}
func (Ldr) isInstr()         {}
func (Str) isInstr()         {}
func (LdrPre) isInstr()      {}
func (StrPost) isInstr()     {}
func (LdrReg) isInstr()      {}
func (StrReg) isInstr()      {}
func (Ldrb) isInstr()        {}
func (Strb) isInstr()        {}
func (LdrbReg) isInstr()     {}
func (StrbReg) isInstr()     {}
func (Psh) isInstr()         {}
func (Pop) isInstr()         {}
