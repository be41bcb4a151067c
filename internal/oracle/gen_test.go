package oracle

import (
	"errors"
	"math/rand"
	"testing"

	"pgregory.net/rapid"

	"github.com/wsclang/wsc/internal/interp"
	"github.com/wsclang/wsc/internal/ws"
)

// Every generated program must load and pass the static validator.
// TestGeneratedProgramsRunToEnd checks that the interpreter never
// underflows on generated programs.
func TestGeneratedProgramsAreValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		instrs := Generate(func(n int) int {
			return rapid.IntRange(0, n-1).Draw(t, "draw")
		})
		if err := Validate(instrs); err != nil {
			t.Fatalf("generated program invalid: %v\n%s", err, listing(instrs))
		}
	})
}

func TestGeneratedProgramsRunToEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var discarded int
	const samples = 200
	for i := 0; i < samples; i++ {
		instrs := Generate(rng.Intn)
		prog, err := ws.NewProgram(instrs)
		if err != nil {
			t.Fatalf("sample %d rejected at load: %v\n%s", i, err, listing(instrs))
		}
		script := interp.NewScript("")
		if err := interp.Exec(prog, script); err != nil {
			if errors.Is(err, interp.ErrValStackEmpty) {
				t.Fatalf("sample %d underflowed: %v\n%s", i, err, listing(instrs))
			}
			discarded++
		}
	}
	// The generator is allowed to be imperfect, but a heap-and-output
	// distribution with guarded divisors should nearly always terminate.
	if discarded > samples/10 {
		t.Fatalf("discarded %d of %d samples", discarded, samples)
	}
}

func TestGeneratedProgramsProduceOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	instrs := Generate(rng.Intn)
	prog, err := ws.NewProgram(instrs)
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}
	script := interp.NewScript("")
	if err := interp.Exec(prog, script); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if script.Output() == "" {
		t.Fatalf("generated program produced no output:\n%s", listing(instrs))
	}
}

func listing(instrs []ws.Instr) string {
	out := ""
	for _, in := range instrs {
		out += "  " + in.String() + "\n"
	}
	return out
}
