package parallelism

import (
	"github.com/ab180/adabatch/decidermetric"
	"github.com/airbloc/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	funk "github.com/thoas/go-funk"
	"go.uber.org/atomic"
)

// Unset is the sentinel value for an unfixed initialParallelism.
const Unset = -1

var log = logger.New("parallelism")

// ParallelismDecider chooses a downstream parallelism and the exact
// input-range assignment for a job vertex, given the finalized byte
// statistics of its upstream results. It is constructed once per job
// with an immutable configuration snapshot, is stateless between calls,
// and may be invoked in parallel on disjoint vertices without
// synchronization.
type ParallelismDecider struct {
	cfg Config

	fallbacks     *atomic.Uint64
	legalizations *atomic.Uint64
}

// NewParallelismDecider constructs a decider from a validated Config.
func NewParallelismDecider(cfg Config) *ParallelismDecider {
	return &ParallelismDecider{
		cfg:           cfg,
		fallbacks:     atomic.NewUint64(0),
		legalizations: atomic.NewUint64(0),
	}
}

// Fallbacks reports how many Decide calls fell back from the even-data
// path to the even-subpartitions path due to a legalization failure.
func (d *ParallelismDecider) Fallbacks() uint64 {
	return d.fallbacks.Load()
}

// Legalizations reports how many Decide calls required legalization (the
// chosen parallelism fell outside [min, max] before adjustment).
func (d *ParallelismDecider) Legalizations() uint64 {
	return d.legalizations.Load()
}

// Decide dispatches on input topology (source / pure all-to-all / mixed)
// and computes the downstream parallelism and input range assignment.
func (d *ParallelismDecider) Decide(
	vertexID string,
	consumedResults []BlockingResultInfo,
	initialParallelism int,
) (ParallelismAndInputInfos, error) {
	if initialParallelism != Unset && initialParallelism <= 0 {
		return ParallelismAndInputInfos{}, errors.Wrapf(
			ErrInvalidArgument, "initialParallelism must be Unset or positive, got %d", initialParallelism,
		)
	}

	if len(consumedResults) == 0 {
		p := d.cfg.DefaultSourceParallelism
		if initialParallelism != Unset {
			p = initialParallelism
		}
		result := ParallelismAndInputInfos{Parallelism: p, Inputs: map[ResultID]JobVertexInputInfo{}}
		d.recordDecision(vertexID, result)
		return result, nil
	}

	allNonPointwise := true
	allBroadcast := true
	for _, r := range consumedResults {
		if r.IsPointwise() {
			allNonPointwise = false
		}
		if !r.IsBroadcast() {
			allBroadcast = false
		}
	}

	if initialParallelism == Unset && allNonPointwise && !allBroadcast {
		result, err := d.decideEvenData(vertexID, consumedResults)
		if err == nil {
			d.recordDecision(vertexID, result)
			return result, nil
		}
		if !errors.Is(err, errLegalizationFailed) {
			return ParallelismAndInputInfos{}, err
		}
		d.fallbacks.Inc()
		decidermetric.FallbackDecisionsTotal.With(decidermetric.LabelsFor(vertexID)).Inc()
		log.Info("vertex {}: even-data path failed to legalize, falling back to even-subpartitions", vertexID)
	}

	result, err := d.decideEvenSubpartitions(vertexID, consumedResults, initialParallelism)
	if err != nil {
		return ParallelismAndInputInfos{}, err
	}
	d.recordDecision(vertexID, result)
	return result, nil
}

// recordDecision observes a completed decision on the decisions counter
// and decided-parallelism gauge, keyed by vertexID.
func (d *ParallelismDecider) recordDecision(vertexID string, result ParallelismAndInputInfos) {
	labels := decidermetric.LabelsFor(vertexID)
	decidermetric.DecisionsTotal.With(labels).Inc()
	decidermetric.DecidedParallelismGauge.With(labels).Set(float64(result.Parallelism))
}

func nonBroadcastResultsOf(results []BlockingResultInfo) []BlockingResultInfo {
	return funk.Filter(results, func(r BlockingResultInfo) bool {
		return !r.IsBroadcast()
	}).([]BlockingResultInfo)
}

func broadcastResultsOf(results []BlockingResultInfo) []BlockingResultInfo {
	return funk.Filter(results, func(r BlockingResultInfo) bool {
		return r.IsBroadcast()
	}).([]BlockingResultInfo)
}

func sumBytesProduced(results []BlockingResultInfo) int64 {
	return lo.SumBy(results, func(r BlockingResultInfo) int64 {
		return r.NumBytesProduced()
	})
}

// clamp confines p to [min, max].
func clamp(p, min, max int) int {
	if p < min {
		return min
	}
	if p > max {
		return max
	}
	return p
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
