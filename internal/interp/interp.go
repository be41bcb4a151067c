// Package interp single-steps the W virtual machine: an operand stack and a
// heap of arbitrary-precision integers, a call stack of return indices, and
// a program counter over a validated instruction array.
package interp

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/wsclang/wsc/internal/ws"
)

var byteModulus = big.NewInt(256)

type machine struct {
	prog  *ws.Program
	io    IO
	stack []*big.Int
	heap  map[string]*big.Int
	calls []int
	pc    int
}

// Exec runs the program to completion against the provided I/O capability.
// It returns nil on a normal End halt and the first error otherwise; the
// machine never recovers or resumes.
func Exec(prog *ws.Program, io IO) error {
	m := &machine{
		prog: prog,
		io:   io,
		heap: make(map[string]*big.Int),
	}
	for {
		in, err := prog.At(m.pc)
		if err != nil {
			return err
		}
		halted, err := m.step(in)
		if err != nil {
			return fmt.Errorf("interp: pc %d (%s): %w", m.pc, in, err)
		}
		if halted {
			return nil
		}
	}
}

func (m *machine) push(v *big.Int) {
	m.stack = append(m.stack, v)
}

func (m *machine) pop() (*big.Int, error) {
	if len(m.stack) == 0 {
		return nil, ErrValStackEmpty
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *machine) jump(label string) error {
	idx, err := m.prog.Lookup(label)
	if err != nil {
		return err
	}
	m.pc = idx
	return nil
}

// step executes one instruction and advances the program counter. It reports
// a normal halt through its first result.
func (m *machine) step(in ws.Instr) (bool, error) {
	next := m.pc + 1
	switch in.Op {
	case ws.OpPush:
		m.push(new(big.Int).Set(in.Num))

	case ws.OpDup:
		if len(m.stack) == 0 {
			return false, ErrValStackEmpty
		}
		m.push(new(big.Int).Set(m.stack[len(m.stack)-1]))

	case ws.OpSwap:
		if len(m.stack) < 2 {
			return false, ErrValStackEmpty
		}
		top := len(m.stack) - 1
		m.stack[top], m.stack[top-1] = m.stack[top-1], m.stack[top]

	case ws.OpDiscard:
		if _, err := m.pop(); err != nil {
			return false, err
		}

	case ws.OpCopy:
		if in.Depth < 0 || len(m.stack) < in.Depth+1 {
			return false, ErrValStackEmpty
		}
		m.push(new(big.Int).Set(m.stack[len(m.stack)-1-in.Depth]))

	case ws.OpSlide:
		top, err := m.pop()
		if err != nil {
			return false, err
		}
		if in.Depth < 0 || len(m.stack) < in.Depth {
			return false, ErrValStackEmpty
		}
		m.stack = m.stack[:len(m.stack)-in.Depth]
		m.push(top)

	case ws.OpArith:
		b, err := m.pop()
		if err != nil {
			return false, err
		}
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		v, err := arith(in.Arith, a, b)
		if err != nil {
			return false, err
		}
		m.push(v)

	case ws.OpLabel:
		// Control-flow anchor only.

	case ws.OpCall:
		m.calls = append(m.calls, next)
		if err := m.jump(in.Label); err != nil {
			return false, err
		}
		return false, nil

	case ws.OpJump:
		if err := m.jump(in.Label); err != nil {
			return false, err
		}
		return false, nil

	case ws.OpBranch:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		taken := false
		switch in.Cond {
		case ws.CondZero:
			taken = v.Sign() == 0
		case ws.CondNeg:
			taken = v.Sign() < 0
		}
		if taken {
			if err := m.jump(in.Label); err != nil {
				return false, err
			}
			return false, nil
		}

	case ws.OpReturn:
		if len(m.calls) == 0 {
			return false, ErrCallStackEmpty
		}
		m.pc = m.calls[len(m.calls)-1]
		m.calls = m.calls[:len(m.calls)-1]
		return false, nil

	case ws.OpEnd:
		return true, nil

	case ws.OpStore:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		m.heap[a.String()] = v

	case ws.OpRetrieve:
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		if v, ok := m.heap[a.String()]; ok {
			m.push(new(big.Int).Set(v))
		} else {
			m.push(new(big.Int))
		}

	case ws.OpOutputNum:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		if err := m.io.WriteString(v.String()); err != nil {
			return false, err
		}

	case ws.OpOutputChar:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		b := new(big.Int).Mod(v, byteModulus)
		if err := m.io.WriteString(string([]byte{byte(b.Int64())})); err != nil {
			return false, err
		}

	case ws.OpInputChar:
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		c, err := m.io.ReadChar()
		if err != nil {
			return false, err
		}
		m.heap[a.String()] = big.NewInt(int64(c))

	case ws.OpInputNum:
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		n, err := m.readNumber()
		if err != nil {
			return false, err
		}
		m.heap[a.String()] = n

	default:
		return false, fmt.Errorf("unknown opcode %d", in.Op)
	}
	m.pc = next
	return false, nil
}

// arith uses truncated division: big.Int Quo and Rem round toward zero,
// matching the sdiv/msub sequence the compiler emits.
func arith(op ws.ArithOp, a, b *big.Int) (*big.Int, error) {
	switch op {
	case ws.Add:
		return new(big.Int).Add(a, b), nil
	case ws.Sub:
		return new(big.Int).Sub(a, b), nil
	case ws.Mul:
		return new(big.Int).Mul(a, b), nil
	case ws.Div:
		if b.Sign() == 0 {
			return nil, ErrDivByZero
		}
		return new(big.Int).Quo(a, b), nil
	case ws.Mod:
		if b.Sign() == 0 {
			return nil, ErrDivByZero
		}
		return new(big.Int).Rem(a, b), nil
	default:
		return nil, fmt.Errorf("unknown arithmetic op %d", op)
	}
}

// readNumber consumes one line of input and parses it as a signed decimal.
func (m *machine) readNumber() (*big.Int, error) {
	var line []byte
	for {
		c, err := m.io.ReadChar()
		if errors.Is(err, ErrInputExhausted) {
			if len(line) == 0 {
				return nil, err
			}
			break
		}
		if err != nil {
			return nil, err
		}
		if c == '\n' {
			break
		}
		line = append(line, c)
	}
	n, ok := new(big.Int).SetString(string(line), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, line)
	}
	return n, nil
}
