// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// maxMatrixCapacity is the number of matrix slots GX can load per draw.
const maxMatrixCapacity = 10

// Config holds all converter settings.
type Config struct {
	Packing PackingConfig `yaml:"packing" toml:"packing"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// PackingConfig controls how triangles are split into draw packets.
type PackingConfig struct {
	MatrixCapacity int  `yaml:"matrix_capacity" toml:"matrix_capacity"` // Matrices loaded per packet
	Parallel       bool `yaml:"parallel" toml:"parallel"`               // Build batches concurrently
	Workers        int  `yaml:"workers" toml:"workers"`                 // 0 = GOMAXPROCS
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Packing: PackingConfig{
			MatrixCapacity: maxMatrixCapacity,
			Parallel:       false,
			Workers:        0,
		},
		Output: OutputConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Packing.MatrixCapacity < 1 || c.Packing.MatrixCapacity > maxMatrixCapacity {
		return fmt.Errorf("%w: matrix_capacity %d outside 1..%d", ErrInvalidConfig, c.Packing.MatrixCapacity, maxMatrixCapacity)
	}
	if c.Packing.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Packing.Workers)
	}
	return nil
}
