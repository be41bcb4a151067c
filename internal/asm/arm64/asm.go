package arm64

import (
	"fmt"

	"github.com/wsclang/wsc/internal/asm"
)

func requireContext(ctx asm.Context) (*Context, error) {
	if c, ok := ctx.(*Context); ok {
		return c, nil
	}
	return nil, fmt.Errorf("arm64 asm: unsupported context %T", ctx)
}

type fragmentFunc func(asm.Context) error

func (f fragmentFunc) Emit(ctx asm.Context) error {
	return f(ctx)
}

// Instrs wraps raw instruction values as a fragment. Values that reference
// labels must instead go through the label-aware constructors below so the
// context can verify the target exists.
func Instrs(instrs ...Instr) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		c.Append(instrs...)
		return nil
	})
}

// MovImmediate loads an arbitrary 64-bit immediate. Values outside the range
// a single mov accepts are chunked into a mov plus movk sequence.
func MovImmediate(dst Reg, value int64) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		if err := dst.validate(); err != nil {
			return err
		}
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		emitMovImmediate(c, dst, value)
		return nil
	})
}

func emitMovImmediate(c *Context, dst Reg, value int64) {
	if value >= 0 && value <= 0xFFFF {
		c.Append(MovImm{Rd: dst, Imm: value})
		return
	}
	if value < 0 && value >= -0x10000 {
		// Encodable as a single movn by the assembler.
		c.Append(MovImm{Rd: dst, Imm: value})
		return
	}
	bits := uint64(value)
	c.Append(MovImm{Rd: dst, Imm: int64(uint16(bits))})
	for shift := uint8(16); shift < 64; shift += 16 {
		chunk := uint16(bits >> shift)
		if chunk == 0 {
			continue
		}
		c.Append(MovK{Rd: dst, Imm: chunk, Shift: shift})
	}
}

func Jump(label asm.Label) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		c.Reference(label)
		c.Append(B{Target: label})
		return nil
	})
}

func CondJump(cond Cond, label asm.Label) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		c.Reference(label)
		c.Append(BCond{Cond: cond, Target: label})
		return nil
	})
}

func Call(label asm.Label) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		c.Reference(label)
		c.Append(Bl{Target: label})
		return nil
	})
}

// AdrLabel loads the address of a nearby label.
func AdrLabel(dst Reg, label asm.Label) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		if err := dst.validate(); err != nil {
			return err
		}
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		c.Reference(label)
		c.Append(Adr{Rd: dst, Target: label})
		return nil
	})
}

// SymbolAddress forms the absolute address of a data symbol in dst.
func SymbolAddress(dst Reg, sym string) asm.Fragment {
	return fragmentFunc(func(ctx asm.Context) error {
		if err := dst.validate(); err != nil {
			return err
		}
		c, err := requireContext(ctx)
		if err != nil {
			return err
		}
		c.Append(AdrPage{Rd: dst, Sym: sym}, AddPageOff{Rd: dst, Sym: sym})
		return nil
	})
}
