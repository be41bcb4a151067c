package asm

import "fmt"

// Label names a position in the emitted program. Labels are resolved by the
// downstream assembler; the emission context only tracks definitions and
// references so that duplicates and dangling targets are caught before any
// text is written.
type Label string

// Context is the sink fragments emit into. Each architecture package provides
// its own concrete implementation.
type Context interface {
	GetLabel(label Label) (int, bool)
	SetLabel(label Label)
	Reference(label Label)
}

// Fragment is a composable unit of emitted code.
type Fragment interface {
	Emit(ctx Context) error
}

type Group []Fragment

var (
	_ Fragment = Group{}
)

func (g Group) Emit(ctx Context) error {
	for _, frag := range g {
		if frag == nil {
			continue
		}
		if err := frag.Emit(ctx); err != nil {
			return err
		}
	}
	return nil
}

type labelDef struct {
	label Label
}

// MarkLabel defines a label at the current emission position.
func MarkLabel(label Label) Fragment {
	return &labelDef{label: label}
}

func (l *labelDef) Emit(ctx Context) error {
	if _, exists := ctx.GetLabel(l.label); exists {
		return fmt.Errorf("label %q already defined", l.label)
	}
	ctx.SetLabel(l.label)
	return nil
}
