package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qdist/internal/compiler"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Settings SettingsOptions
	Output   string // plan file path
	DB       string // history database path
	Metrics  string // metrics file path
}

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	Plan     *compiler.Plan `json:"plan"`
	Output   string         `json:"output,omitempty"`
	RecordID string         `json:"record_id,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <circuit.yaml>",
		Short: "Compile a circuit into a communication plan",
		Long: `Compile a circuit file into a plan of local gates and communication blocks.

Remote gates are aggregated into blocks, merged across commuting gates,
assigned cat or teleportation protocols, and scheduled to count the EPR
pairs and latency of the result.

Examples:
  qdist compile circuit.yaml
  qdist compile circuit.yaml --config settings.cue -o plan.json
  qdist compile circuit.yaml --rounds 0 --fuse-crz
  qdist compile circuit.yaml --db history.db --format json
  qdist compile circuit.yaml --metrics metrics.prom`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	addSettingsFlags(cmd, &opts.Settings)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the plan as JSON to this file")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the compilation in this history database")
	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "write compiler metrics in Prometheus text format to this file")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.Settings.load(cmd)
	if err != nil {
		return failConfig(formatter, err)
	}
	formatter.VerboseLog("Compiling %s (rounds %d, fuse_crz %t)", path, cfg.RefinementRounds, cfg.FuseCRZ)

	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	c, plan, err := compileFile(cmd.Context(), path, cfg, logger)
	if err != nil {
		return failWith(formatter, err)
	}

	result := &CompileResult{Plan: plan}

	if opts.Output != "" {
		if err := writePlanFile(plan, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		result.Output = opts.Output
	}

	if opts.DB != "" {
		rec, err := recordPlan(cmd.Context(), opts.DB, plan, c.Nodes)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		formatter.VerboseLog("Recorded compilation %s", rec.ID)
		result.RecordID = rec.ID
	}

	if err := writeMetrics(opts.Metrics); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}

	return outputCompileSuccess(formatter, result)
}

// outputCompileSuccess outputs a successful compilation.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprint(w, renderSummary(result.Plan))
	fmt.Fprintln(w, renderPlan(result.Plan))

	if result.Output != "" {
		fmt.Fprintf(w, "Wrote plan to %s\n", result.Output)
	}
	if result.RecordID != "" {
		fmt.Fprintf(w, "Recorded as %s\n", result.RecordID)
	}
	return nil
}

// writePlanFile writes plan as indented JSON.
func writePlanFile(plan *compiler.Plan, filename string) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
