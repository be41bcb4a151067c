package oracle

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dir != "test_files/qcoutput" {
		t.Fatalf("Dir = %q", cfg.Dir)
	}
	if cfg.Script != "script.sh" || cfg.AsmFile != "prog.s" || cfg.OutFile != "out.txt" {
		t.Fatalf("file names = %q %q %q", cfg.Script, cfg.AsmFile, cfg.OutFile)
	}
	if cfg.Samples != 150 {
		t.Fatalf("Samples = %d, want 150", cfg.Samples)
	}
	if cfg.Timeout.Duration() != 20*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout.Duration())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.yaml")
	spec := `
dir: /tmp/wsc-oracle
script: assemble.sh
samples: 400
timeout: 90s
`
	if err := os.WriteFile(path, []byte(spec), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Dir != "/tmp/wsc-oracle" || cfg.Script != "assemble.sh" {
		t.Fatalf("paths = %q %q", cfg.Dir, cfg.Script)
	}
	if cfg.Samples != 400 {
		t.Fatalf("Samples = %d", cfg.Samples)
	}
	if cfg.Timeout.Duration() != 90*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout.Duration())
	}
	// Unset fields fall back to defaults.
	if cfg.AsmFile != "prog.s" || cfg.OutFile != "out.txt" {
		t.Fatalf("defaults not applied: %q %q", cfg.AsmFile, cfg.OutFile)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.yaml")
	if err := os.WriteFile(path, []byte("timeout: soon\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("LoadConfig accepted a bad duration")
	}
}
