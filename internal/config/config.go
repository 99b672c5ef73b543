package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/schedule"
)

// MaxRounds bounds RefinementRounds.
const MaxRounds = 64

// Config holds the tunable compiler settings.
type Config struct {
	RefinementRounds int                `json:"refinement_rounds" yaml:"refinement_rounds"`
	FuseCRZ          bool               `json:"fuse_crz" yaml:"fuse_crz"`
	Latencies        schedule.Latencies `json:"latencies" yaml:"latencies"`
}

// Default returns the reference settings.
func Default() Config {
	return Config{
		RefinementRounds: compiler.DefaultRounds,
		Latencies:        schedule.DefaultLatencies(),
	}
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.RefinementRounds < 0 || c.RefinementRounds > MaxRounds {
		return fmt.Errorf("refinement_rounds must be between 0 and %d, got %d", MaxRounds, c.RefinementRounds)
	}
	return c.Latencies.Validate()
}

// Options converts c into pipeline options.
func (c Config) Options() []compiler.Option {
	return []compiler.Option{
		compiler.WithRounds(c.RefinementRounds),
		compiler.WithFuseCRZ(c.FuseCRZ),
		compiler.WithLatencies(c.Latencies),
	}
}

// fileConfig is the on-disk shape. Pointer fields distinguish absent keys
// from zero values.
type fileConfig struct {
	RefinementRounds *int           `json:"refinement_rounds,omitempty" yaml:"refinement_rounds"`
	FuseCRZ          *bool          `json:"fuse_crz,omitempty" yaml:"fuse_crz"`
	Latencies        *fileLatencies `json:"latencies,omitempty" yaml:"latencies"`
}

type fileLatencies struct {
	OneQubit           *float64 `json:"one_qubit,omitempty" yaml:"one_qubit"`
	TwoQubit           *float64 `json:"two_qubit,omitempty" yaml:"two_qubit"`
	ControlledRotation *float64 `json:"controlled_rotation,omitempty" yaml:"controlled_rotation"`
	EPR                *float64 `json:"epr,omitempty" yaml:"epr"`
	Measure            *float64 `json:"measure,omitempty" yaml:"measure"`
	Classical          *float64 `json:"classical,omitempty" yaml:"classical"`
}

func (f fileConfig) apply(c Config) Config {
	if f.RefinementRounds != nil {
		c.RefinementRounds = *f.RefinementRounds
	}
	if f.FuseCRZ != nil {
		c.FuseCRZ = *f.FuseCRZ
	}
	if l := f.Latencies; l != nil {
		set(&c.Latencies.OneQubit, l.OneQubit)
		set(&c.Latencies.TwoQubit, l.TwoQubit)
		set(&c.Latencies.ControlledRotation, l.ControlledRotation)
		set(&c.Latencies.EPR, l.EPR)
		set(&c.Latencies.Measure, l.Measure)
		set(&c.Latencies.Classical, l.Classical)
	}
	return c
}

func set(dst, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Load reads a settings file, choosing the format by extension: .cue files
// go through the CUE schema, anything else is parsed as YAML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if filepath.Ext(path) == ".cue" {
		return ParseCUE(data, path)
	}
	return ParseYAML(data)
}

// ParseYAML decodes YAML settings over Default. Unknown keys are rejected.
func ParseYAML(data []byte) (Config, error) {
	var f fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	c := f.apply(Default())
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
