package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qdist/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Circuit     string                     `json:"circuit"`
	Qubits      int                        `json:"qubits"`
	Nodes       int                        `json:"nodes"`
	Gates       int                        `json:"gates"`
	RemoteGates int                        `json:"remote_gates"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <circuit.yaml>",
		Short: "Validate a circuit without compiling it",
		Long: `Validate a circuit file without compiling it.

Reports every problem found (gate arity, parameter counts, qubits missing
from the node map, non-finite angles) instead of stopping at the first.

Exit codes:
  0 - Circuit is valid
  1 - Circuit has problems
  2 - Command error (file not found, unparseable YAML)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	c, err := loadCircuit(path)
	if err != nil {
		return failWith(formatter, err)
	}
	formatter.VerboseLog("Loaded %s: %d gate(s) on %d qubit(s)", c.Name, len(c.Gates), c.Nodes.NumQubits())

	result := ValidationResult{
		Circuit: c.Name,
		Qubits:  c.Nodes.NumQubits(),
		Nodes:   c.Nodes.NumNodes(),
		Gates:   len(c.Gates),
		Errors:  compiler.ValidateCircuit(c.Gates, c.Nodes),
	}
	result.Valid = len(result.Errors) == 0
	if result.Valid {
		for _, g := range c.Gates {
			if c.Nodes.IsRemote(g) {
				result.RemoteGates++
			}
		}
	}

	if formatter.Format == "json" {
		return outputValidateJSON(formatter, result)
	}
	return outputValidateText(formatter, result)
}

func outputValidateJSON(formatter *OutputFormatter, result ValidationResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Valid {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeMalformed,
			Message: fmt.Sprintf("%d problem(s) found", len(result.Errors)),
		}
	}

	encoder := json.NewEncoder(formatter.Writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", len(result.Errors)))
	}
	return nil
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) error {
	w := formatter.Writer

	if result.Valid {
		fmt.Fprintf(w, "%s %s is valid: %d qubit(s) on %d node(s), %d gate(s), %d remote\n",
			okStyle.Render("✓"), result.Circuit, result.Qubits, result.Nodes, result.Gates, result.RemoteGates)
		return nil
	}

	fmt.Fprintln(w, errorStyle.Render("✗ Validation failed"))
	fmt.Fprintln(w)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", len(result.Errors)))
}
