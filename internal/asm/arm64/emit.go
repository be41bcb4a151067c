package arm64

import (
	"fmt"

	"github.com/wsclang/wsc/internal/asm"
)

// EmitProgram lowers a fragment into an AArch64 instruction list.
func EmitProgram(fragment asm.Fragment) ([]Instr, error) {
	if fragment == nil {
		return nil, fmt.Errorf("arm64 asm: fragment is nil")
	}

	ctx := newContext()
	if err := fragment.Emit(ctx); err != nil {
		return nil, err
	}
	return ctx.finalize()
}
