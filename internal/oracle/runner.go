package oracle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/wsclang/wsc/internal/asm/arm64"
	"github.com/wsclang/wsc/internal/compile"
	"github.com/wsclang/wsc/internal/interp"
	"github.com/wsclang/wsc/internal/ws"
)

// Outcome is one differential comparison. Discarded samples are programs
// the imperfect generator produced on which the interpreter underflows the
// operand stack or exhausts its input; every other sample that interprets
// successfully either matches or is a counterexample.
type Outcome struct {
	Interp   string
	Exec     string
	Discard  bool
	TimedOut bool
	Match    bool
}

type Runner struct {
	cfg *Config
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.applyDefaults()
	}
	return &Runner{cfg: cfg}
}

// ScriptPresent reports whether the external assemble-and-run script
// exists; callers skip the differential property without it.
func (r *Runner) ScriptPresent() bool {
	_, err := os.Stat(filepath.Join(r.cfg.Dir, r.cfg.Script))
	return err == nil
}

// Run interprets the program on empty input, compiles it, hands the
// rendered assembly to the external script, and compares outputs. The
// script's exit code is ignored by contract; only the output file counts.
func (r *Runner) Run(ctx context.Context, instrs []ws.Instr) (*Outcome, error) {
	prog, err := ws.NewProgram(instrs)
	if err != nil {
		return nil, fmt.Errorf("oracle: generated program rejected: %w", err)
	}

	script := interp.NewScript("")
	if err := interp.Exec(prog, script); err != nil {
		if errors.Is(err, interp.ErrValStackEmpty) || errors.Is(err, interp.ErrInputExhausted) {
			return &Outcome{Discard: true}, nil
		}
		return nil, fmt.Errorf("oracle: interpreter failed: %w", err)
	}
	want := script.Output()

	code, err := compile.W(prog)
	if err != nil {
		return nil, fmt.Errorf("oracle: compiling: %w", err)
	}

	if err := os.MkdirAll(r.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("oracle: creating work dir: %w", err)
	}
	asmPath := filepath.Join(r.cfg.Dir, r.cfg.AsmFile)
	outPath := filepath.Join(r.cfg.Dir, r.cfg.OutFile)

	// Never compare against a stale output file.
	if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("oracle: clearing output file: %w", err)
	}
	if err := os.WriteFile(asmPath, []byte(arm64.RenderProgram(code)), 0o644); err != nil {
		return nil, fmt.Errorf("oracle: writing assembly: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout.Duration())
	defer cancel()

	cmd := exec.CommandContext(runCtx, "./"+r.cfg.Script)
	cmd.Dir = r.cfg.Dir
	_ = cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &Outcome{Interp: want, TimedOut: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		// The script failed to produce output; that is a failing
		// comparison, not a harness error.
		return &Outcome{Interp: want}, nil
	}
	return &Outcome{
		Interp: want,
		Exec:   string(got),
		Match:  string(got) == want,
	}, nil
}
