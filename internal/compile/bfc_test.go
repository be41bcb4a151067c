package compile

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/wsclang/wsc/internal/asm/arm64"
	"github.com/wsclang/wsc/internal/bf"
)

func compileBText(t *testing.T, src string) string {
	t.Helper()
	prog, err := bf.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	code, err := B(prog)
	if err != nil {
		t.Fatalf("B failed: %v", err)
	}
	return arm64.RenderProgram(code)
}

func TestBLoopShape(t *testing.T) {
	// The classic zero-printer: the loop sits at instruction index 6.
	text := compileBText(t, "++++++[>++++++++<-]>.")
	got := lines(text)
	want := []string{
		"while_6:",
		"ldr x0, [sp]",
		"ldrb w1, [x29, x0]",
		"cmp x1, #0",
		"b.eq whileend_6",
	}
	if !containsInOrder(got, want...) {
		t.Fatalf("loop head wrong in:\n%s", text)
	}
	if !containsInOrder(got, "b while_6", "whileend_6:") {
		t.Fatalf("loop tail wrong in:\n%s", text)
	}
}

func TestBNestedLoopPathIndices(t *testing.T) {
	text := compileBText(t, "+[>[-]<[[-]]-]")
	for _, want := range []string{
		"while_1", "while_1.1", "while_1.3", "while_1.3.0",
		"whileend_1", "whileend_1.1", "whileend_1.3", "whileend_1.3.0",
	} {
		if !strings.Contains(text, want+":\n") {
			t.Fatalf("missing loop label %q in:\n%s", want, text)
		}
	}
}

func TestBCellOps(t *testing.T) {
	text := compileBText(t, "+-><.,")
	got := lines(text)
	if !containsInOrder(got,
		"ldrb w1, [x29, x0]",
		"add x1, x1, #1",
		"strb w1, [x29, x0]",
	) {
		t.Fatalf("byte increment wrong in:\n%s", text)
	}
	if !containsInOrder(got, "bl _output_char") {
		t.Fatalf("output missing in:\n%s", text)
	}
	if !containsInOrder(got, "bl _input_char", "strb w0, [x29, x1]") {
		t.Fatalf("input wrong in:\n%s", text)
	}
}

// genBProgram grows a random loop tree; the depth bound keeps recursion
// shallow while still producing sibling and nested loops at every level.
func genBProgram(t *rapid.T, depth int) []bf.Instr {
	n := rapid.IntRange(0, 6).Draw(t, "n")
	var out []bf.Instr
	for i := 0; i < n; i++ {
		if depth < 3 && rapid.IntRange(0, 3).Draw(t, "loop") == 0 {
			out = append(out, bf.Instr{
				Op:   bf.OpWhile,
				Body: genBProgram(t, depth+1),
			})
			continue
		}
		op := rapid.SampledFrom([]bf.Op{
			bf.OpIncPtr, bf.OpDecPtr, bf.OpIncByte, bf.OpDecByte, bf.OpOutput,
		}).Draw(t, "op")
		out = append(out, bf.Instr{Op: op})
	}
	return out
}

func TestBLoopLabelsUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prog := genBProgram(t, 0)
		code, err := B(prog)
		if err != nil {
			t.Fatalf("B failed: %v", err)
		}
		seen := make(map[string]bool)
		for _, in := range code {
			def, ok := in.(arm64.LabelDef)
			if !ok {
				continue
			}
			name := string(def.Name)
			if seen[name] {
				t.Fatalf("label %q defined twice", name)
			}
			seen[name] = true
		}
	})
}
