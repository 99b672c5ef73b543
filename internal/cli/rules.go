package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qdist/internal/commute"
)

// RuleCase is one row of the rules listing.
type RuleCase struct {
	A       string `json:"a"`
	B       string `json:"b"`
	When    string `json:"when"`
	Blocked bool   `json:"blocked"`
	ToA     string `json:"transform_a,omitempty"`
	ToB     string `json:"transform_b,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the gate commutation rules",
		Long: `List the commutation rules the compiler uses to move gates past each
other. Each case applies when its condition holds on the overlapping
qubits; a blocked case stops the move.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, cmd)
		},
	}

	return cmd
}

func runRules(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var cases []RuleCase
	for _, r := range commute.DefaultTable().Rules() {
		for _, c := range r.Cases {
			rc := RuleCase{A: r.A.String(), B: r.B.String(), When: c.When.String(), Blocked: c.Blocked}
			if !c.Blocked {
				rc.ToA, rc.ToB = c.A.String(), c.B.String()
			}
			cases = append(cases, rc)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(cases)
	}

	rows := make([][]string, len(cases))
	for i, c := range cases {
		outcome := fmt.Sprintf("%s / %s", c.ToA, c.ToB)
		if c.Blocked {
			outcome = errorStyle.Render("blocked")
		}
		rows[i] = []string{c.A, c.B, c.When, outcome}
	}
	fmt.Fprintln(formatter.Writer, renderTable([]string{"A", "B", "When", "Outcome"}, rows))
	return nil
}
