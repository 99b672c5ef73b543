package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/qdist/internal/circuit"
	"github.com/roach88/qdist/internal/commute"
	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/schedule"
)

// Plan is the result of compiling one circuit.
type Plan struct {
	Name               string
	CircuitFingerprint string
	Fingerprint        string
	Elements           []ir.Element
	EPRCount           int
	Latency            float64
	Report             schedule.Report
	Stats              Stats
}

// Stats counts what the passes did.
type Stats struct {
	InputGates     int `json:"input_gates"`
	OutputGates    int `json:"output_gates"`
	Fused          int `json:"fused"`
	Blocks         int `json:"blocks"`
	CatBlocks      int `json:"cat_blocks"`
	TeleportBlocks int `json:"teleport_blocks"`
	Hops           int `json:"hops"`
}

type planJSON struct {
	Name               string             `json:"name"`
	CircuitFingerprint string             `json:"circuit_fingerprint"`
	Fingerprint        string             `json:"fingerprint"`
	PlanVersion        string             `json:"plan_version"`
	EPRCount           int                `json:"epr_count"`
	Latency            float64            `json:"latency"`
	Stats              Stats              `json:"stats"`
	Elements           []ir.ElementRecord `json:"elements"`
}

// MarshalJSON encodes the plan with its elements as tagged records.
func (p *Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(planJSON{
		Name:               p.Name,
		CircuitFingerprint: p.CircuitFingerprint,
		Fingerprint:        p.Fingerprint,
		PlanVersion:        ir.PlanVersion,
		EPRCount:           p.EPRCount,
		Latency:            p.Latency,
		Stats:              p.Stats,
		Elements:           ir.EncodeElements(p.Elements),
	})
}

// UnmarshalJSON decodes a plan written by MarshalJSON.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var v planJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	elems, err := ir.DecodeElements(v.Elements)
	if err != nil {
		return err
	}
	*p = Plan{
		Name:               v.Name,
		CircuitFingerprint: v.CircuitFingerprint,
		Fingerprint:        v.Fingerprint,
		Elements:           elems,
		EPRCount:           v.EPRCount,
		Latency:            v.Latency,
		Stats:              v.Stats,
	}
	return nil
}

// Pipeline chains the compiler passes: optional CRZ fusion, aggregation,
// merging, protocol assignment, relay merging and scheduling.
type Pipeline struct {
	table     *commute.Table
	rounds    int
	latencies schedule.Latencies
	fuseCRZ   bool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTable replaces the commutation rule table.
func WithTable(t *commute.Table) Option {
	return func(p *Pipeline) { p.table = t }
}

// WithRounds sets the number of refinement rounds for both merge passes.
func WithRounds(n int) Option {
	return func(p *Pipeline) { p.rounds = n }
}

// WithLatencies replaces the timing model.
func WithLatencies(l schedule.Latencies) Option {
	return func(p *Pipeline) { p.latencies = l }
}

// WithFuseCRZ enables the CX-RZ-CX fusion pre-pass.
func WithFuseCRZ(enabled bool) Option {
	return func(p *Pipeline) { p.fuseCRZ = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline with the default table, rounds and
// latencies.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		table:     commute.DefaultTable(),
		rounds:    DefaultRounds,
		latencies: schedule.DefaultLatencies(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compile runs every pass over c. Input problems are reported as
// MALFORMED_CIRCUIT or UNSUPPORTED_GATE_TYPE errors; a pass breaking a block
// invariant reports INVARIANT_VIOLATION. The context is checked between
// passes.
func (p *Pipeline) Compile(ctx context.Context, c *circuit.Circuit) (*Plan, error) {
	start := time.Now()
	plan, err := p.compile(ctx, c)
	compileDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		compilationsTotal.WithLabelValues("success").Inc()
		eprPairs.Observe(float64(plan.EPRCount))
		blocksTotal.WithLabelValues(ir.ProtocolCat.String()).Add(float64(plan.Stats.CatBlocks))
		blocksTotal.WithLabelValues(ir.ProtocolTeleport.String()).Add(float64(plan.Stats.TeleportBlocks))
	case ir.IsMalformed(err) || ir.IsUnsupportedGate(err):
		compilationsTotal.WithLabelValues("invalid").Inc()
	default:
		compilationsTotal.WithLabelValues("error").Inc()
	}
	return plan, err
}

func (p *Pipeline) compile(ctx context.Context, c *circuit.Circuit) (*Plan, error) {
	if p.rounds < 0 {
		return nil, fmt.Errorf("refinement rounds must be non-negative, got %d", p.rounds)
	}
	if err := p.latencies.Validate(); err != nil {
		return nil, err
	}
	if errs := ValidateCircuit(c.Gates, c.Nodes); len(errs) > 0 {
		return nil, errs[0].IRError()
	}
	if err := p.table.Validate(); err != nil {
		return nil, err
	}

	circuitFP, err := ir.CircuitFingerprint(c.Name, c.Nodes, c.Gates)
	if err != nil {
		return nil, err
	}

	gates := c.Gates
	fused := 0
	if p.fuseCRZ {
		gates, fused = FuseCRZ(gates)
		crzFusionsTotal.Add(float64(fused))
	}

	merger := NewMerger(p.table, p.rounds, p.logger)
	passes := []struct {
		name string
		run  func([]ir.Element) ([]ir.Element, error)
	}{
		{"merge", func(e []ir.Element) ([]ir.Element, error) { return merger.Merge(e, c.Nodes) }},
		{"assign", func(e []ir.Element) ([]ir.Element, error) { return assignWith(e, c.Nodes, p.logger) }},
		{"relay", func(e []ir.Element) ([]ir.Element, error) { return merger.MergeTeleport(e, c.Nodes) }},
	}

	elems := Aggregate(gates, c.Nodes)
	p.logger.Debug("pass complete", "pass", "aggregate", "elements", len(elems))
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		elems, err = pass.run(elems)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pass.name, err)
		}
		p.logger.Debug("pass complete", "pass", pass.name, "elements", len(elems))
	}

	report, err := schedule.Schedule(elems, c.Nodes, p.latencies)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	fp, err := ir.PlanFingerprint(c.Name, elems)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Name:               c.Name,
		CircuitFingerprint: circuitFP,
		Fingerprint:        fp,
		Elements:           elems,
		EPRCount:           report.EPRCount,
		Latency:            report.Latency,
		Report:             report,
		Stats: Stats{
			InputGates:     len(c.Gates),
			OutputGates:    ir.CountGates(elems),
			Fused:          fused,
			Blocks:         len(ir.Blocks(elems)),
			CatBlocks:      report.CatBlocks,
			TeleportBlocks: report.TeleportBlocks,
			Hops:           report.Hops,
		},
	}

	p.logger.Info("circuit compiled",
		"name", c.Name,
		"gates", plan.Stats.InputGates,
		"blocks", plan.Stats.Blocks,
		"epr", plan.EPRCount,
		"latency", plan.Latency,
	)
	return plan, nil
}
