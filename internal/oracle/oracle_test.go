package oracle

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/wsclang/wsc/internal/asm/arm64"
	"github.com/wsclang/wsc/internal/bf"
	"github.com/wsclang/wsc/internal/compile"
	"github.com/wsclang/wsc/internal/ws"
)

// scenarioPrograms are the fixed equivalence cases; they run through the
// same external script as the random samples.
func scenarioPrograms() []struct {
	name   string
	instrs []ws.Instr
	want   string
} {
	return []struct {
		name   string
		instrs []ws.Instr
		want   string
	}{
		{
			name:   "output_char",
			instrs: []ws.Instr{ws.Push(65), ws.OutputChar(), ws.End()},
			want:   "A",
		},
		{
			name: "add",
			instrs: []ws.Instr{
				ws.Push(3), ws.Push(4), ws.Arith(ws.Add), ws.OutputNum(), ws.End(),
			},
			want: "7",
		},
		{
			name: "sub",
			instrs: []ws.Instr{
				ws.Push(10), ws.Push(7), ws.Arith(ws.Sub), ws.OutputNum(), ws.End(),
			},
			want: "3",
		},
		{
			name: "heap",
			instrs: []ws.Instr{
				ws.Push(0), ws.Push(42), ws.Store(),
				ws.Push(0), ws.Retrieve(), ws.OutputNum(), ws.End(),
			},
			want: "42",
		},
		{
			name: "dup_add",
			instrs: []ws.Instr{
				ws.Push(1), ws.Dup(), ws.Arith(ws.Add), ws.OutputNum(), ws.End(),
			},
			want: "2",
		},
		{
			name: "branch",
			instrs: []ws.Instr{
				ws.Push(0), ws.Branch(ws.CondZero, "L"),
				ws.Push(9), ws.OutputNum(),
				ws.Label("L"), ws.Push(1), ws.OutputNum(), ws.End(),
			},
			want: "1",
		},
	}
}

func newTestRunner(t testing.TB) *Runner {
	t.Helper()
	runner := NewRunner(DefaultConfig())
	if !runner.ScriptPresent() {
		t.Skipf("assemble-and-run script not present; skipping execution tests")
	}
	return runner
}

func TestScenariosMatchOnHardware(t *testing.T) {
	runner := newTestRunner(t)
	for _, tt := range scenarioPrograms() {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := runner.Run(context.Background(), tt.instrs)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if outcome.Discard {
				t.Fatalf("scenario discarded unexpectedly")
			}
			if outcome.Interp != tt.want {
				t.Fatalf("interpreter output = %q, want %q", outcome.Interp, tt.want)
			}
			if !outcome.Match {
				t.Fatalf("executable output = %q, interpreter = %q",
					outcome.Exec, outcome.Interp)
			}
		})
	}
}

// The compiled B zero-printer must emit the byte '0' when executed.
func TestBScenarioOnHardware(t *testing.T) {
	runner := newTestRunner(t)
	cfg := runner.cfg

	prog, err := bf.Parse([]byte("++++++[>++++++++<-]>."))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	code, err := compile.B(prog)
	if err != nil {
		t.Fatalf("B failed: %v", err)
	}

	outPath := filepath.Join(cfg.Dir, cfg.OutFile)
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		t.Fatalf("clearing output file: %v", err)
	}
	asmPath := filepath.Join(cfg.Dir, cfg.AsmFile)
	if err := os.WriteFile(asmPath, []byte(arm64.RenderProgram(code)), 0o644); err != nil {
		t.Fatalf("writing assembly: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout.Duration())
	defer cancel()
	cmd := exec.CommandContext(ctx, "./"+cfg.Script)
	cmd.Dir = cfg.Dir
	_ = cmd.Run()

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != "0" {
		t.Fatalf("executable output = %q, want %q", got, "0")
	}
}

// TestCodegenFidelity is the main differential property: interpreter and
// assembled executable agree byte for byte on empty input. Run with
// -rapid.checks=150 (or more) for the full budget; discards shrink away.
func TestCodegenFidelity(t *testing.T) {
	runner := newTestRunner(t)
	rapid.Check(t, func(t *rapid.T) {
		instrs := Generate(func(n int) int {
			return rapid.IntRange(0, n-1).Draw(t, "draw")
		})
		if err := Validate(instrs); err != nil {
			t.Fatalf("generator produced an invalid program: %v", err)
		}
		outcome, err := runner.Run(context.Background(), instrs)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if outcome.Discard {
			return
		}
		if outcome.TimedOut {
			t.Fatalf("child process timed out")
		}
		if !outcome.Match {
			t.Fatalf("mismatch: interpreter %q, executable %q\n%s",
				outcome.Interp, outcome.Exec, listing(instrs))
		}
	})
}
