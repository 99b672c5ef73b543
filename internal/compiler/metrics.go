package compiler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "qdist"
	subsystem        = "compiler"
)

var (
	compilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "compilations_total",
			Help:      "Total number of circuit compilations",
		},
		[]string{"status"}, // status: "success", "invalid", "error"
	)

	compileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "compile_duration_seconds",
			Help:      "Time taken to compile a circuit",
			Buckets:   prometheus.DefBuckets,
		},
	)

	blocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "blocks_total",
			Help:      "Total number of communication blocks emitted",
		},
		[]string{"protocol"}, // protocol: "cat", "teleport"
	)

	eprPairs = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "epr_pairs",
			Help:      "EPR pairs consumed per compiled circuit",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	crzFusionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "crz_fusions_total",
			Help:      "Total number of CX-RZ-CX patterns fused into CRZ",
		},
	)
)
