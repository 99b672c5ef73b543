package schedule

import (
	"fmt"

	"github.com/roach88/qdist/internal/ir"
)

// Latencies is the idealized timing model, in arbitrary time units.
type Latencies struct {
	OneQubit           float64 `json:"one_qubit" yaml:"one_qubit"`
	TwoQubit           float64 `json:"two_qubit" yaml:"two_qubit"`
	ControlledRotation float64 `json:"controlled_rotation" yaml:"controlled_rotation"`
	EPR                float64 `json:"epr" yaml:"epr"`
	Measure            float64 `json:"measure" yaml:"measure"`
	Classical          float64 `json:"classical" yaml:"classical"`
}

// DefaultLatencies returns the reference timing model.
func DefaultLatencies() Latencies {
	return Latencies{
		OneQubit:           0.1,
		TwoQubit:           1.0,
		ControlledRotation: 2.2,
		EPR:                12,
		Measure:            5,
		Classical:          1,
	}
}

// Gate returns the latency of g.
func (l Latencies) Gate(g ir.Gate) float64 {
	switch g.Type {
	case ir.CX, ir.CZ:
		return l.TwoQubit
	case ir.CRZ, ir.CRX:
		return l.ControlledRotation
	}
	return l.OneQubit
}

// Validate rejects negative latencies.
func (l Latencies) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"one_qubit", l.OneQubit},
		{"two_qubit", l.TwoQubit},
		{"controlled_rotation", l.ControlledRotation},
		{"epr", l.EPR},
		{"measure", l.Measure},
		{"classical", l.Classical},
	}
	for _, f := range fields {
		if f.v < 0 {
			return fmt.Errorf("latency %s must be non-negative, got %v", f.name, f.v)
		}
	}
	return nil
}
