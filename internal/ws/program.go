package ws

import "fmt"

// Program is an immutable instruction array plus the label table built at
// load time. Construction fails on duplicate labels and on references to
// labels that do not exist; the interpreter and the compiler both refuse to
// run anything that has not passed through NewProgram.
type Program struct {
	instrs []Instr
	labels map[string]int
}

func NewProgram(instrs []Instr) (*Program, error) {
	labels := make(map[string]int)
	for idx, in := range instrs {
		if in.Op != OpLabel {
			continue
		}
		if _, exists := labels[in.Label]; exists {
			return nil, fmt.Errorf("ws: %w: %q", ErrDuplicateLabel, in.Label)
		}
		labels[in.Label] = idx
	}
	for _, in := range instrs {
		if !in.HasLabel() {
			continue
		}
		if _, ok := labels[in.Label]; !ok {
			return nil, fmt.Errorf("ws: %w: %q", ErrNoSuchLabel, in.Label)
		}
	}
	p := &Program{
		instrs: append([]Instr(nil), instrs...),
		labels: labels,
	}
	return p, nil
}

func (p *Program) Len() int {
	return len(p.instrs)
}

func (p *Program) At(pc int) (Instr, error) {
	if pc < 0 || pc >= len(p.instrs) {
		return Instr{}, fmt.Errorf("ws: %w: %d", ErrOutOfBounds, pc)
	}
	return p.instrs[pc], nil
}

func (p *Program) Lookup(label string) (int, error) {
	idx, ok := p.labels[label]
	if !ok {
		return 0, fmt.Errorf("ws: %w: %q", ErrNoSuchLabel, label)
	}
	return idx, nil
}

// Instrs returns the backing instruction list. Callers must not mutate it.
func (p *Program) Instrs() []Instr {
	return p.instrs
}
