// Package decidermetric exposes Prometheus metrics for
// ParallelismDecider.Decide invocations.
package decidermetric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/fasthash/fnv1a"
)

// DecisionLabels are vector definitions for decision-level metrics.
var DecisionLabels = []string{"job_vertex_id"}

var DecidedParallelismGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "adabatch_decided_parallelism",
		Help: "The parallelism most recently decided for a job vertex",
	},
	DecisionLabels,
)

var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adabatch_decisions_total",
		Help: "The number of parallelism decisions made per job vertex",
	},
	DecisionLabels,
)

var FallbackDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adabatch_fallback_decisions_total",
		Help: "The number of decisions that fell back from the even-data path to the even-subpartitions path",
	},
	DecisionLabels,
)

var LegalizationStepsHistogram = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "adabatch_legalization_steps",
		Help:    "The number of bisection passes taken while legalizing a candidate parallelism into [min, max]",
		Buckets: prometheus.LinearBuckets(0, 1, 10),
	},
	DecisionLabels,
)

// LabelsFor builds the label set for a job vertex ID, hashed
// with fnv1a.HashString64 so dashboards can key on a short, deterministic
// identifier instead of the raw (often long) vertex ID.
func LabelsFor(jobVertexID string) prometheus.Labels {
	hashed := strconv.FormatUint(fnv1a.HashString64(jobVertexID), 16)
	return prometheus.Labels{"job_vertex_id": hashed}
}
