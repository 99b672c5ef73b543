package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB      string
	Limit   int
	ID      string
	Circuit string // circuit fingerprint filter
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded compilations",
		Long: `List compilations recorded with --db, newest first.

With --id, show one recorded compilation and its plan. With --circuit,
list every compilation of the circuit with that fingerprint, oldest first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "history database (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum records to list (0 for all)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single record")
	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "list records for a circuit fingerprint")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.ID != "" {
		rec, err := st.Get(ctx, opts.ID)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no compilation with id %s", opts.ID), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		return outputRecord(formatter, rec)
	}

	var recs []store.Record
	if opts.Circuit != "" {
		recs, err = st.ByCircuit(ctx, opts.Circuit)
	} else {
		recs, err = st.List(ctx, opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		for i := range recs {
			recs[i].Plan = nil
		}
		if recs == nil {
			recs = []store.Record{}
		}
		return formatter.Success(recs)
	}

	if len(recs) == 0 {
		fmt.Fprintln(formatter.Writer, "No compilations recorded.")
		return nil
	}

	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			r.Name,
			strconv.Itoa(r.EPRCount),
			fmt.Sprintf("%d/%d", r.CatBlocks, r.TeleportBlocks),
			fmt.Sprintf("%.2f", r.Latency),
			r.CreatedAt.Local().Format(time.DateTime),
		}
	}
	fmt.Fprintln(formatter.Writer, renderTable([]string{"ID", "Name", "EPR", "Cat/Tele", "Latency", "Created"}, rows))
	return nil
}

func outputRecord(formatter *OutputFormatter, rec store.Record) error {
	if formatter.Format == "json" {
		return formatter.Success(rec)
	}

	plan, err := rec.DecodePlan()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	w := formatter.Writer
	fmt.Fprintln(w, titleStyle.Render(rec.Name)+" "+dimStyle.Render(rec.ID))
	fmt.Fprintf(w, "  Recorded:  %s (compiler %s, plan %s)\n", rec.CreatedAt.Local().Format(time.DateTime), rec.CompilerVersion, rec.PlanVersion)
	fmt.Fprintf(w, "  Circuit:   %s (%d qubits on %d nodes, %d gates)\n", rec.CircuitFingerprint, rec.Qubits, rec.Nodes, rec.InputGates)
	fmt.Fprintf(w, "  Plan:      %s\n", rec.PlanFingerprint)
	fmt.Fprintf(w, "  EPR pairs: %d\n", rec.EPRCount)
	fmt.Fprintf(w, "  Latency:   %.2f\n", rec.Latency)
	fmt.Fprintln(w, renderPlan(plan))
	return nil
}

// recordPlan saves one compilation to the database at path.
func recordPlan(ctx context.Context, path string, plan *compiler.Plan, nodes ir.NodeMap) (store.Record, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.Record{}, err
	}
	defer st.Close()

	rec, err := store.FromPlan(plan, nodes)
	if err != nil {
		return store.Record{}, err
	}
	return st.Save(ctx, rec)
}
