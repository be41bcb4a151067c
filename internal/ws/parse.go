package ws

import (
	"fmt"
	"math/big"
)

// Parse reads W surface syntax: programs written in space, tab and linefeed,
// every other byte being commentary. Labels are re-encoded as '0'/'1'
// strings (space and tab respectively) so they survive into assembly intact.
func Parse(src []byte) ([]Instr, error) {
	s := &scanner{}
	for _, b := range src {
		switch b {
		case ' ', '\t', '\n':
			s.toks = append(s.toks, b)
		}
	}

	var instrs []Instr
	for !s.done() {
		in, err := s.instr()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}

type scanner struct {
	toks []byte
	pos  int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.toks)
}

func (s *scanner) next() (byte, error) {
	if s.done() {
		return 0, fmt.Errorf("ws: %w: unexpected end of input", ErrSyntax)
	}
	b := s.toks[s.pos]
	s.pos++
	return b, nil
}

func (s *scanner) instr() (Instr, error) {
	imp, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	switch imp {
	case ' ':
		return s.stack()
	case '\t':
		sub, err := s.next()
		if err != nil {
			return Instr{}, err
		}
		switch sub {
		case ' ':
			return s.arith()
		case '\t':
			return s.heap()
		case '\n':
			return s.io()
		}
	case '\n':
		return s.flow()
	}
	return Instr{}, fmt.Errorf("ws: %w: unknown instruction prefix", ErrSyntax)
}

func (s *scanner) stack() (Instr, error) {
	b, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	switch b {
	case ' ':
		n, err := s.number()
		if err != nil {
			return Instr{}, err
		}
		return PushBig(n), nil
	case '\t':
		c, err := s.next()
		if err != nil {
			return Instr{}, err
		}
		n, err := s.number()
		if err != nil {
			return Instr{}, err
		}
		k := int(n.Int64())
		switch c {
		case ' ':
			return Copy(k), nil
		case '\n':
			return Slide(k), nil
		}
		return Instr{}, fmt.Errorf("ws: %w: bad stack command", ErrSyntax)
	case '\n':
		c, err := s.next()
		if err != nil {
			return Instr{}, err
		}
		switch c {
		case ' ':
			return Dup(), nil
		case '\t':
			return Swap(), nil
		case '\n':
			return Discard(), nil
		}
	}
	return Instr{}, fmt.Errorf("ws: %w: bad stack command", ErrSyntax)
}

func (s *scanner) arith() (Instr, error) {
	a, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	b, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	switch {
	case a == ' ' && b == ' ':
		return Arith(Add), nil
	case a == ' ' && b == '\t':
		return Arith(Sub), nil
	case a == ' ' && b == '\n':
		return Arith(Mul), nil
	case a == '\t' && b == ' ':
		return Arith(Div), nil
	case a == '\t' && b == '\t':
		return Arith(Mod), nil
	}
	return Instr{}, fmt.Errorf("ws: %w: bad arithmetic command", ErrSyntax)
}

func (s *scanner) heap() (Instr, error) {
	b, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	switch b {
	case ' ':
		return Store(), nil
	case '\t':
		return Retrieve(), nil
	}
	return Instr{}, fmt.Errorf("ws: %w: bad heap command", ErrSyntax)
}

func (s *scanner) io() (Instr, error) {
	a, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	b, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	switch {
	case a == ' ' && b == ' ':
		return OutputChar(), nil
	case a == ' ' && b == '\t':
		return OutputNum(), nil
	case a == '\t' && b == ' ':
		return InputChar(), nil
	case a == '\t' && b == '\t':
		return InputNum(), nil
	}
	return Instr{}, fmt.Errorf("ws: %w: bad io command", ErrSyntax)
}

func (s *scanner) flow() (Instr, error) {
	a, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	b, err := s.next()
	if err != nil {
		return Instr{}, err
	}
	switch {
	case a == ' ' && b == ' ':
		l, err := s.label()
		if err != nil {
			return Instr{}, err
		}
		return Label(l), nil
	case a == ' ' && b == '\t':
		l, err := s.label()
		if err != nil {
			return Instr{}, err
		}
		return Call(l), nil
	case a == ' ' && b == '\n':
		l, err := s.label()
		if err != nil {
			return Instr{}, err
		}
		return Jump(l), nil
	case a == '\t' && b == ' ':
		l, err := s.label()
		if err != nil {
			return Instr{}, err
		}
		return Branch(CondZero, l), nil
	case a == '\t' && b == '\t':
		l, err := s.label()
		if err != nil {
			return Instr{}, err
		}
		return Branch(CondNeg, l), nil
	case a == '\t' && b == '\n':
		return Return(), nil
	case a == '\n' && b == '\n':
		return End(), nil
	}
	return Instr{}, fmt.Errorf("ws: %w: bad flow command", ErrSyntax)
}

// number reads a sign token followed by binary digits up to a linefeed.
func (s *scanner) number() (*big.Int, error) {
	sign, err := s.next()
	if err != nil {
		return nil, err
	}
	if sign == '\n' {
		return big.NewInt(0), nil
	}
	n := new(big.Int)
	for {
		b, err := s.next()
		if err != nil {
			return nil, err
		}
		if b == '\n' {
			break
		}
		n.Lsh(n, 1)
		if b == '\t' {
			n.Or(n, big.NewInt(1))
		}
	}
	if sign == '\t' {
		n.Neg(n)
	}
	return n, nil
}

// label reads binary digits up to a linefeed as a '0'/'1' identifier.
func (s *scanner) label() (string, error) {
	var out []byte
	for {
		b, err := s.next()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if b == '\t' {
			out = append(out, '1')
		} else {
			out = append(out, '0')
		}
	}
	if len(out) == 0 {
		return "e", nil
	}
	return string(out), nil
}
