package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qdist/internal/circuit"
	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/config"
	"github.com/roach88/qdist/internal/ir"
)

// SettingsOptions holds the compiler flags shared by compile, lower and
// batch. Flags override values from the settings file.
type SettingsOptions struct {
	Config  string
	Rounds  int
	FuseCRZ bool
}

func addSettingsFlags(cmd *cobra.Command, s *SettingsOptions) {
	cmd.Flags().StringVar(&s.Config, "config", "", "settings file (.yaml or .cue)")
	cmd.Flags().IntVar(&s.Rounds, "rounds", compiler.DefaultRounds, "refinement rounds (overrides config)")
	cmd.Flags().BoolVar(&s.FuseCRZ, "fuse-crz", false, "fuse CX-RZ-CX into CRZ before aggregation")
}

// load resolves the effective settings for cmd.
func (s *SettingsOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if s.Config != "" {
		var err error
		cfg, err = config.Load(s.Config)
		if err != nil {
			return config.Config{}, err
		}
	}
	if cmd.Flags().Changed("rounds") {
		cfg.RefinementRounds = s.Rounds
	}
	if s.FuseCRZ {
		cfg.FuseCRZ = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// compileFile loads and compiles one circuit file.
func compileFile(ctx context.Context, path string, cfg config.Config, logger *slog.Logger) (*circuit.Circuit, *compiler.Plan, error) {
	c, err := loadCircuit(path)
	if err != nil {
		return nil, nil, err
	}
	opts := append(cfg.Options(), compiler.WithLogger(logger))
	plan, err := compiler.NewPipeline(opts...).Compile(ctx, c)
	if err != nil {
		return c, nil, err
	}
	return c, plan, nil
}

// circuitError marks a circuit file that could not be read or parsed.
type circuitError struct{ err error }

func (e *circuitError) Error() string { return e.err.Error() }
func (e *circuitError) Unwrap() error { return e.err }

func loadCircuit(path string) (*circuit.Circuit, error) {
	c, err := circuit.Load(path)
	if err != nil {
		return nil, &circuitError{err: err}
	}
	return c, nil
}

// classify maps an error to a CLI error code and response details.
func classify(err error) (string, any) {
	if errors.Is(err, os.ErrNotExist) {
		return ErrCodeNotFound, nil
	}

	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		if cfgErr.Pos.IsValid() {
			return ErrCodeConfig, map[string]string{
				"field":    cfgErr.Field,
				"position": fmt.Sprintf("%s:%d:%d", cfgErr.Pos.Filename(), cfgErr.Pos.Line(), cfgErr.Pos.Column()),
			}
		}
		return ErrCodeConfig, map[string]string{"field": cfgErr.Field}
	}

	var irErr *ir.Error
	if errors.As(err, &irErr) {
		details := map[string]string{"code": string(irErr.Code)}
		if irErr.Index >= 0 {
			details["index"] = fmt.Sprint(irErr.Index)
		}
		for k, v := range irErr.Details {
			details[k] = v
		}
		switch irErr.Code {
		case ir.ErrCodeMalformedCircuit:
			return ErrCodeMalformed, details
		case ir.ErrCodeUnsupportedGateType:
			return ErrCodeUnsupported, details
		case ir.ErrCodeInvariantViolation:
			return ErrCodeInvariant, details
		}
	}

	var circErr *circuitError
	if errors.As(err, &circErr) {
		return ErrCodeParseFailure, nil
	}

	return ErrCodeGeneric, nil
}

// failWith reports err with its classified code as a command error.
func failWith(f *OutputFormatter, err error) error {
	code, details := classify(err)
	return f.Fail(ExitCommandError, code, err.Error(), details)
}

// failConfig reports a settings error.
func failConfig(f *OutputFormatter, err error) error {
	code, details := classify(err)
	if code == ErrCodeGeneric {
		code = ErrCodeConfig
	}
	return f.Fail(ExitCommandError, code, err.Error(), details)
}
