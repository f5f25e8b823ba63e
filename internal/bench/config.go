package bench

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters of one a+b benchmark run.
type Config struct {
	// Elements is the length of each input array.
	Elements int `yaml:"elements"`
	// Repetitions is the number of timed kernel launches and read-backs.
	Repetitions int `yaml:"repetitions"`
	// WorkGroupSize is the one-dimensional local work size.
	WorkGroupSize int `yaml:"workGroupSize"`
	// KernelPath is resolved relative to the working directory.
	KernelPath string `yaml:"kernelPath"`
	KernelName string `yaml:"kernelName"`
	// Device is the preferred device type: gpu, cpu, accelerator or any.
	Device string `yaml:"device"`
	Seed   int64  `yaml:"seed"`
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Elements:      100 * 1000 * 1000,
		Repetitions:   20,
		WorkGroupSize: 128,
		KernelPath:    "kernels/aplusb.cl",
		KernelName:    "aplusb",
		Device:        "gpu",
		Seed:          239,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Elements <= 0:
		return fmt.Errorf("elements must be positive, got %d", c.Elements)
	case uint64(c.Elements) > math.MaxUint32:
		return fmt.Errorf("elements must fit in a 32-bit unsigned index, got %d", c.Elements)
	case c.Repetitions <= 0:
		return fmt.Errorf("repetitions must be positive, got %d", c.Repetitions)
	case c.WorkGroupSize <= 0:
		return fmt.Errorf("work group size must be positive, got %d", c.WorkGroupSize)
	case c.KernelPath == "":
		return fmt.Errorf("kernel path is required")
	case c.KernelName == "":
		return fmt.Errorf("kernel name is required")
	}
	return nil
}
