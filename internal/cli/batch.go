package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Settings SettingsOptions
	Jobs     int
	DB       string
	Metrics  string
}

// BatchEntry is the outcome of one circuit in a batch.
type BatchEntry struct {
	Path     string  `json:"path"`
	Name     string  `json:"name,omitempty"`
	EPRCount int     `json:"epr_count"`
	Blocks   int     `json:"blocks"`
	Latency  float64 `json:"latency"`
	RecordID string  `json:"record_id,omitempty"`
	Error    string  `json:"error,omitempty"`

	plan  *compiler.Plan
	nodes ir.NodeMap
}

// BatchResult is the JSON payload of the batch command.
type BatchResult struct {
	Circuits []BatchEntry `json:"circuits"`
	Compiled int          `json:"compiled"`
	Failed   int          `json:"failed"`
	EPRTotal int          `json:"epr_total"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <circuit.yaml>...",
		Short: "Compile many circuits concurrently",
		Long: `Compile several circuits with the same settings, --jobs at a time.

Results are reported in argument order. A circuit that fails to compile
does not stop the others; the command exits 1 if any failed.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args, cmd)
		},
	}

	addSettingsFlags(cmd, &opts.Settings)
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 4, "circuits compiled in parallel")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record successful compilations in this history database")
	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "write compiler metrics in Prometheus text format to this file")

	return cmd
}

func runBatch(opts *BatchOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Jobs < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("--jobs must be at least 1, got %d", opts.Jobs), nil)
	}
	cfg, err := opts.Settings.load(cmd)
	if err != nil {
		return failConfig(formatter, err)
	}

	ctx := cmd.Context()
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	entries := make([]BatchEntry, len(paths))

	wg := errgroup.Group{}
	wg.SetLimit(opts.Jobs)
	for i, path := range paths {
		wg.Go(func() error {
			entry := BatchEntry{Path: path}
			c, plan, err := compileFile(ctx, path, cfg, logger.With("circuit", filepath.Base(path)))
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Name = plan.Name
				entry.EPRCount = plan.EPRCount
				entry.Blocks = plan.Stats.Blocks
				entry.Latency = plan.Latency
				entry.plan, entry.nodes = plan, c.Nodes
			}
			entries[i] = entry
			return nil
		})
	}
	_ = wg.Wait()

	if opts.DB != "" {
		if err := recordBatch(cmd, opts.DB, entries); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
	}

	if err := writeMetrics(opts.Metrics); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}

	result := BatchResult{Circuits: entries}
	for _, e := range entries {
		if e.Error != "" {
			result.Failed++
			continue
		}
		result.Compiled++
		result.EPRTotal += e.EPRCount
	}
	formatter.VerboseLog("Compiled %d of %d circuit(s) with %d job(s)", result.Compiled, len(paths), opts.Jobs)

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputBatchText(formatter, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d circuit(s) failed", result.Failed))
	}
	return nil
}

// recordBatch saves the successful entries in argument order.
func recordBatch(cmd *cobra.Command, path string, entries []BatchEntry) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	for i := range entries {
		if entries[i].plan == nil {
			continue
		}
		rec, err := store.FromPlan(entries[i].plan, entries[i].nodes)
		if err != nil {
			return err
		}
		rec, err = st.Save(cmd.Context(), rec)
		if err != nil {
			return fmt.Errorf("record %s: %w", entries[i].Path, err)
		}
		entries[i].RecordID = rec.ID
	}
	return nil
}

func outputBatchText(formatter *OutputFormatter, result BatchResult) {
	rows := make([][]string, len(result.Circuits))
	for i, e := range result.Circuits {
		if e.Error != "" {
			rows[i] = []string{e.Path, errorStyle.Render("error"), "", "", e.Error}
			continue
		}
		rows[i] = []string{e.Path, e.Name, strconv.Itoa(e.EPRCount), strconv.Itoa(e.Blocks), fmt.Sprintf("%.2f", e.Latency)}
	}

	w := formatter.Writer
	fmt.Fprintln(w, renderTable([]string{"Circuit", "Name", "EPR", "Blocks", "Latency"}, rows))
	fmt.Fprintf(w, "%d compiled, %d failed, %d EPR pairs total\n", result.Compiled, result.Failed, result.EPRTotal)
}
