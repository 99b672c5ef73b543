package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/qdist/internal/circuit"
	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/config"
	"github.com/roach88/qdist/internal/lower"
)

// Harness compiles scenario circuits and evaluates their assertions.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness that logs through logger. A nil logger discards.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a discarding logger.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(context.Background(), scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the circuit and the optional settings file
// 2. Compile the circuit with those settings
// 3. Lower the plan into primitive operations
// 4. Evaluate assertions against the plan and program
//
// Failing assertions are reported in the result; errors are returned only
// when the scenario cannot be executed at all.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	c, err := circuit.Load(scenario.Circuit)
	if err != nil {
		return nil, fmt.Errorf("failed to load circuit: %w", err)
	}

	cfg := config.Default()
	if scenario.Config != "" {
		cfg, err = config.Load(scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	opts := append(cfg.Options(), compiler.WithLogger(h.logger))
	plan, err := compiler.NewPipeline(opts...).Compile(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	prog, err := lower.Lower(plan.Elements, c.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to lower: %w", err)
	}

	result := NewResult()
	result.Circuit = c
	result.Plan = plan
	result.Program = prog

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario executed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"epr_count", plan.EPRCount,
	)
	return result, nil
}
