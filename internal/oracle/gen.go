// Package oracle generates random W programs and checks that the compiled
// and interpreted executions agree byte for byte.
package oracle

import (
	"fmt"

	"github.com/wsclang/wsc/internal/ws"
)

// Source supplies randomness: it returns a value in [0, n). Wrapping both
// math/rand and a property-testing framework behind the same signature lets
// the fuzz driver and the shrinking test share one generator.
type Source func(n int) int

// Generation envelope. Values stay small enough to round-trip through
// 64-bit two's complement with room for the arithmetic the program performs,
// and heap addresses stay inside the 8-byte-cell view of the array region.
const (
	maxPushValue = 10
	maxHeapAddr  = 40
	maxCopyDepth = 4
	maxSlideLen  = 3
)

// Generate produces a terminating W program biased toward heap traffic and
// output. Control flow is forward-only: conditional skips over
// stack-neutral blocks, and calls to stack-neutral subroutines laid out
// after the End instruction.
func Generate(draw Source) []ws.Instr {
	g := &generator{draw: draw}
	return g.program()
}

type generator struct {
	draw   Source
	instrs []ws.Instr
	height int
	labels int
	funcs  []string
}

func (g *generator) emit(in ws.Instr) {
	g.instrs = append(g.instrs, in)
}

func (g *generator) program() []ws.Instr {
	segments := 8 + g.draw(24)
	for i := 0; i < segments; i++ {
		g.segment()
	}
	// Ensure at least one observable effect per program.
	g.emit(ws.Push(int64(g.draw(maxPushValue))))
	g.emit(ws.OutputNum())
	g.emit(ws.End())
	for _, name := range g.funcs {
		g.emit(ws.Label(name))
		g.emit(ws.Push(int64(g.draw(maxPushValue))))
		g.emit(ws.OutputNum())
		g.emit(ws.Return())
	}
	return g.instrs
}

func (g *generator) pushSmall() {
	g.emit(ws.Push(int64(g.draw(maxPushValue))))
	g.height++
}

func (g *generator) segment() {
	switch p := g.draw(100); {
	case p < 18:
		g.pushSmall()

	case p < 32: // heap store
		g.emit(ws.Push(int64(g.draw(maxHeapAddr))))
		g.emit(ws.Push(int64(g.draw(maxPushValue))))
		g.emit(ws.Store())

	case p < 48: // heap load, observed
		g.emit(ws.Push(int64(g.draw(maxHeapAddr))))
		g.emit(ws.Retrieve())
		g.emit(ws.OutputNum())

	case p < 58:
		if g.height < 1 {
			g.pushSmall()
			return
		}
		g.emit(ws.OutputNum())
		g.height--

	case p < 64: // printable character output
		g.emit(ws.Push(int64('A' + g.draw(26))))
		g.emit(ws.OutputChar())

	case p < 72:
		g.arith()

	case p < 78:
		if g.height < 1 {
			g.pushSmall()
			return
		}
		g.emit(ws.Dup())
		g.height++

	case p < 83:
		if g.height < 2 {
			g.pushSmall()
			return
		}
		g.emit(ws.Swap())

	case p < 87:
		if g.height < 1 {
			g.pushSmall()
			return
		}
		g.emit(ws.Discard())
		g.height--

	case p < 91:
		if g.height < 1 {
			g.pushSmall()
			return
		}
		depth := g.draw(min(g.height, maxCopyDepth))
		g.emit(ws.Copy(depth))
		g.height++

	case p < 94:
		if g.height < 2 {
			g.pushSmall()
			return
		}
		k := 1 + g.draw(min(g.height-1, maxSlideLen))
		g.emit(ws.Slide(k))
		g.height -= k

	case p < 97:
		g.forwardBranch()

	default:
		g.call()
	}
}

func (g *generator) arith() {
	op := ws.ArithOp(g.draw(5))
	switch op {
	case ws.Div, ws.Mod:
		if g.height < 1 {
			g.pushSmall()
			return
		}
		// A freshly pushed non-zero divisor keeps the division defined.
		g.emit(ws.Push(int64(1 + g.draw(maxPushValue-1))))
		g.emit(ws.Arith(op))
	default:
		if g.height < 2 {
			g.pushSmall()
			return
		}
		g.emit(ws.Arith(op))
		g.height--
	}
}

// forwardBranch emits a conditional skip over a stack-neutral block, so the
// operand stack height is identical on both paths.
func (g *generator) forwardBranch() {
	g.labels++
	target := fmt.Sprintf("b%d", g.labels)
	cond := ws.CondZero
	if g.draw(2) == 1 {
		cond = ws.CondNeg
	}
	g.emit(ws.Push(int64(g.draw(2))))
	g.emit(ws.Branch(cond, target))
	skipped := 1 + g.draw(3)
	for i := 0; i < skipped; i++ {
		g.emit(ws.Push(int64(g.draw(maxPushValue))))
		g.emit(ws.OutputNum())
	}
	g.emit(ws.Label(target))
}

// call emits a call to a stack-neutral subroutine; the bodies are laid out
// after End by program.
func (g *generator) call() {
	name := fmt.Sprintf("f%d", len(g.funcs))
	g.funcs = append(g.funcs, name)
	g.emit(ws.Call(name))
}
