// wsfuzz drives the differential oracle outside the test suite: generate
// random W programs, interpret them, compile and execute them through the
// external script, and compare the outputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/wsclang/wsc/internal/oracle"
	"github.com/wsclang/wsc/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wsfuzz: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML harness configuration (default: built-in paths)")
	samples := flag.Int("n", 0, "Number of samples (default: from config)")
	seed := flag.Int64("seed", 0, "Random seed (default: current time)")
	flag.Parse()

	cfg := oracle.DefaultConfig()
	if *configPath != "" {
		loaded, err := oracle.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	runner := oracle.NewRunner(cfg)
	if !runner.ScriptPresent() {
		return fmt.Errorf("assemble-and-run script not found in %s", cfg.Dir)
	}

	slog.Info("fuzzing", "samples", cfg.Samples, "seed", *seed, "dir", cfg.Dir)
	rng := rand.New(rand.NewSource(*seed))

	var bar *progressbar.ProgressBar
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.Default(int64(cfg.Samples))
	}

	ctx := context.Background()
	var passed, discarded, failed, timedOut int
	var counterexample []ws.Instr

	for i := 0; i < cfg.Samples; i++ {
		instrs := oracle.Generate(rng.Intn)
		if err := oracle.Validate(instrs); err != nil {
			return fmt.Errorf("generator produced an invalid program: %w", err)
		}
		outcome, err := runner.Run(ctx, instrs)
		if err != nil {
			return err
		}
		switch {
		case outcome.Discard:
			discarded++
		case outcome.TimedOut:
			timedOut++
			failed++
		case outcome.Match:
			passed++
		default:
			failed++
			if counterexample == nil {
				counterexample = instrs
				slog.Error("mismatch",
					"interp", outcome.Interp, "exec", outcome.Exec)
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	fmt.Printf("passed %d, failed %d (timeouts %d), discarded %d\n",
		passed, failed, timedOut, discarded)
	if counterexample != nil {
		fmt.Println("first counterexample:")
		for _, in := range counterexample {
			fmt.Printf("  %s\n", in)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d samples failed", failed, cfg.Samples)
	}
	return nil
}
