package oracle

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config locates the working files the differential harness shares with the
// external assemble-and-run script. The paths are configuration, not
// constants: parallel runs must point at disjoint directories.
type Config struct {
	// Dir is the working directory the script runs in.
	Dir string `yaml:"dir"`
	// Script is the assemble-and-run entry point, relative to Dir.
	Script string `yaml:"script"`
	// AsmFile receives the rendered assembly, relative to Dir.
	AsmFile string `yaml:"asm_file"`
	// OutFile is where the script leaves the executable's stdout.
	OutFile string `yaml:"out_file"`
	// Samples is the number of random programs the fuzz driver runs.
	Samples int `yaml:"samples"`
	// Timeout bounds each child-process run. A timeout fails the
	// property rather than discarding it.
	Timeout Duration `yaml:"timeout"`
}

// DefaultConfig mirrors the layout the repository's test files use.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Dir == "" {
		c.Dir = "test_files/qcoutput"
	}
	if c.Script == "" {
		c.Script = "script.sh"
	}
	if c.AsmFile == "" {
		c.AsmFile = "prog.s"
	}
	if c.OutFile == "" {
		c.OutFile = "out.txt"
	}
	if c.Samples == 0 {
		c.Samples = 150
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(20 * time.Second)
	}
}

// LoadConfig reads a YAML harness configuration and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("oracle: parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
