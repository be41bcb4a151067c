package arm64

import (
	"fmt"

	"github.com/wsclang/wsc/internal/asm"
)

// Context collects instruction values and tracks label definitions and
// references so that emission fails on duplicate or dangling labels instead
// of handing the assembler a broken file.
type Context struct {
	instrs []Instr
	labels map[asm.Label]int
	refs   []labelRef
}

type labelRef struct {
	label asm.Label
	pos   int
}

func newContext() *Context {
	return &Context{
		labels: make(map[asm.Label]int),
	}
}

// Append adds raw instruction values at the current position.
func (c *Context) Append(instrs ...Instr) {
	c.instrs = append(c.instrs, instrs...)
}

func (c *Context) SetLabel(label asm.Label) {
	c.labels[label] = len(c.instrs)
	c.instrs = append(c.instrs, LabelDef{Name: label})
}

func (c *Context) GetLabel(label asm.Label) (int, bool) {
	pos, ok := c.labels[label]
	return pos, ok
}

func (c *Context) Reference(label asm.Label) {
	c.refs = append(c.refs, labelRef{label: label, pos: len(c.instrs)})
}

func (c *Context) finalize() ([]Instr, error) {
	for _, ref := range c.refs {
		if _, ok := c.labels[ref.label]; !ok {
			return nil, fmt.Errorf("arm64 asm: undefined label %q", ref.label)
		}
	}
	return c.instrs, nil
}
