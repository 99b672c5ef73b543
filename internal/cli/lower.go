package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qdist/internal/lower"
)

// LowerOptions holds flags for the lower command.
type LowerOptions struct {
	*RootOptions
	Settings SettingsOptions
}

// LowerResult is the JSON payload of the lower command.
type LowerResult struct {
	Name            string   `json:"name"`
	PlanFingerprint string   `json:"plan_fingerprint"`
	EPRCount        int      `json:"epr_count"`
	Bits            int      `json:"bits"`
	Ops             []string `json:"ops"`
}

// NewLowerCommand creates the lower command.
func NewLowerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LowerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lower <circuit.yaml>",
		Short: "Compile a circuit and print its primitive operations",
		Long: `Compile a circuit and expand every block into primitive operations:
EPR pair creation, local gates, measurements, classically controlled
corrections and resets.

Data qubits print as q<i>; communication qubits as c<node>.<slot>.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLower(opts, args[0], cmd)
		},
	}

	addSettingsFlags(cmd, &opts.Settings)

	return cmd
}

func runLower(opts *LowerOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.Settings.load(cmd)
	if err != nil {
		return failConfig(formatter, err)
	}

	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	c, plan, err := compileFile(cmd.Context(), path, cfg, logger)
	if err != nil {
		return failWith(formatter, err)
	}

	prog, err := lower.Lower(plan.Elements, c.Nodes)
	if err != nil {
		return failWith(formatter, err)
	}
	formatter.VerboseLog("Lowered %d element(s) into %d op(s)", len(plan.Elements), len(prog.Ops))

	if formatter.Format == "json" {
		return formatter.Success(LowerResult{
			Name:            plan.Name,
			PlanFingerprint: plan.Fingerprint,
			EPRCount:        prog.EPRCount,
			Bits:            prog.Bits,
			Ops:             prog.Lines(),
		})
	}

	w := formatter.Writer
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s: %d ops, %d EPR pairs, %d classical bits",
		plan.Name, len(prog.Ops), prog.EPRCount, prog.Bits)))
	for _, op := range prog.Ops {
		line := op.String()
		switch op.Kind {
		case lower.OpEPR:
			line = teleportStyle.Render(line)
		case lower.OpMeasure, lower.OpCondX, lower.OpCondZ, lower.OpReset:
			line = dimStyle.Render(line)
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}
