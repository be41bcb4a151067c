package oracle

import (
	"errors"
	"fmt"

	"github.com/wsclang/wsc/internal/ws"
)

var (
	ErrStackUnderflow = errors.New("operand stack may underflow")
	ErrFallsOffEnd    = errors.New("execution may fall off the program end")
)

// Validate proves the operand stack never underflows on any control-flow
// path and that every path reaches End, Return, or a backward-free exit.
// It propagates the minimum stack height reaching each instruction to a
// fixpoint; since depth requirements are monotone in height, checking the
// minimum suffices. Subroutine bodies are assumed height-neutral across
// Call, which holds for everything Generate produces. Termination and
// division by zero are not checked here: the validator only rules out the
// underflow class, and the harness discards samples whose interpretation
// underflows or runs out of input while reporting other runtime failures
// as errors.
func Validate(instrs []ws.Instr) error {
	prog, err := ws.NewProgram(instrs)
	if err != nil {
		return err
	}

	type state struct {
		pc     int
		height int
	}
	best := make(map[int]int)
	work := []state{{pc: 0, height: 0}}

	for len(work) > 0 {
		st := work[len(work)-1]
		work = work[:len(work)-1]

		if prev, seen := best[st.pc]; seen && st.height >= prev {
			continue
		}
		best[st.pc] = st.height

		if st.pc >= prog.Len() {
			return fmt.Errorf("oracle: %w at pc %d", ErrFallsOffEnd, st.pc)
		}
		in, err := prog.At(st.pc)
		if err != nil {
			return err
		}

		need, delta := stackEffect(in)
		if st.height < need {
			return fmt.Errorf("oracle: %w: pc %d (%s) needs %d, has %d",
				ErrStackUnderflow, st.pc, in, need, st.height)
		}
		h := st.height + delta

		switch in.Op {
		case ws.OpEnd, ws.OpReturn:
			// Path ends here.
		case ws.OpJump:
			idx, err := prog.Lookup(in.Label)
			if err != nil {
				return err
			}
			work = append(work, state{pc: idx, height: h})
		case ws.OpBranch:
			idx, err := prog.Lookup(in.Label)
			if err != nil {
				return err
			}
			work = append(work, state{pc: idx, height: h})
			work = append(work, state{pc: st.pc + 1, height: h})
		case ws.OpCall:
			idx, err := prog.Lookup(in.Label)
			if err != nil {
				return err
			}
			work = append(work, state{pc: idx, height: h})
			work = append(work, state{pc: st.pc + 1, height: h})
		default:
			work = append(work, state{pc: st.pc + 1, height: h})
		}
	}
	return nil
}

// stackEffect returns the depth an instruction requires and the height
// delta it applies.
func stackEffect(in ws.Instr) (need, delta int) {
	switch in.Op {
	case ws.OpPush:
		return 0, 1
	case ws.OpDup:
		return 1, 1
	case ws.OpSwap:
		return 2, 0
	case ws.OpDiscard:
		return 1, -1
	case ws.OpCopy:
		return in.Depth + 1, 1
	case ws.OpSlide:
		return in.Depth + 1, -in.Depth
	case ws.OpArith:
		return 2, -1
	case ws.OpBranch:
		return 1, -1
	case ws.OpStore:
		return 2, -2
	case ws.OpRetrieve:
		return 1, 0
	case ws.OpOutputChar, ws.OpOutputNum:
		return 1, -1
	case ws.OpInputChar, ws.OpInputNum:
		return 1, -1
	default:
		return 0, 0
	}
}
