package ws

import (
	"errors"
	"testing"
)

func TestNewProgramDuplicateLabel(t *testing.T) {
	_, err := NewProgram([]Instr{
		Label("x"), Push(1), Label("x"), End(),
	})
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("NewProgram error = %v, want ErrDuplicateLabel", err)
	}
}

func TestNewProgramMissingTarget(t *testing.T) {
	tests := []struct {
		name   string
		instrs []Instr
	}{
		{"jump", []Instr{Jump("nowhere"), End()}},
		{"call", []Instr{Call("nowhere"), End()}},
		{"branch", []Instr{Push(0), Branch(CondZero, "nowhere"), End()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProgram(tt.instrs); !errors.Is(err, ErrNoSuchLabel) {
				t.Fatalf("NewProgram error = %v, want ErrNoSuchLabel", err)
			}
		})
	}
}

func TestProgramAccessors(t *testing.T) {
	prog, err := NewProgram([]Instr{
		Push(1), Label("here"), End(),
	})
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}

	if prog.Len() != 3 {
		t.Fatalf("Len = %d, want 3", prog.Len())
	}

	in, err := prog.At(0)
	if err != nil {
		t.Fatalf("At(0) failed: %v", err)
	}
	if in.Op != OpPush {
		t.Fatalf("At(0).Op = %v, want OpPush", in.Op)
	}

	if _, err := prog.At(3); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("At(3) error = %v, want ErrOutOfBounds", err)
	}
	if _, err := prog.At(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("At(-1) error = %v, want ErrOutOfBounds", err)
	}

	idx, err := prog.Lookup("here")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if idx != 1 {
		t.Fatalf("Lookup = %d, want 1", idx)
	}
	if _, err := prog.Lookup("absent"); !errors.Is(err, ErrNoSuchLabel) {
		t.Fatalf("Lookup error = %v, want ErrNoSuchLabel", err)
	}
}
