package parallelism

import (
	"github.com/ab180/adabatch/decidermetric"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// errLegalizationFailed signals that legalize could not bring the packed
// parallelism into [min, max]; it is an internal control-flow condition,
// never returned to the caller of Decide.
var errLegalizationFailed = errors.New("legalization failed")

// decideEvenData implements the even-data path: every consumed result is
// non-pointwise and initialParallelism is Unset. Subpartition byte totals
// are aggregated across inputs into a single weight vector and packed
// into contiguous ranges that each stay under the per-task data budget.
func (d *ParallelismDecider) decideEvenData(
	vertexID string,
	consumedResults []BlockingResultInfo,
) (ParallelismAndInputInfos, error) {
	broadcasts := broadcastResultsOf(consumedResults)
	nonBroadcasts := nonBroadcastResultsOf(consumedResults)

	broadcastBytes := sumBytesProduced(broadcasts)
	if broadcastLimit := d.cfg.broadcastCap(); broadcastBytes > broadcastLimit {
		broadcastBytes = broadcastLimit
	}

	numSubpartitions, err := uniformSubpartitionCount(nonBroadcasts)
	if err != nil {
		return ParallelismAndInputInfos{}, err
	}

	w := make([]int64, numSubpartitions)
	for _, r := range nonBroadcasts {
		agg := r.AggregatedSubpartitionBytes()
		for i, b := range agg {
			w[i] += b
		}
	}

	limit := d.cfg.DataVolumePerTask - broadcastBytes
	ranges := packRanges(w, limit)
	p := len(ranges)

	if p < d.cfg.MinParallelism || p > d.cfg.MaxParallelism {
		d.legalizations.Inc()
		legalized, steps, ok := d.legalize(w, limit, p)
		decidermetric.LegalizationStepsHistogram.With(decidermetric.LabelsFor(vertexID)).Observe(float64(steps))
		if !ok {
			return ParallelismAndInputInfos{}, errLegalizationFailed
		}
		ranges = legalized
	}

	// self-check: the ranges must cover [0, numSubpartitions-1] exactly once, in order.
	next := 0
	for _, r := range ranges {
		if r.Start != next || r.End < r.Start {
			return ParallelismAndInputInfos{}, newInvalidState(errors.Errorf(
				"subpartition range (%d,%d) does not continue from %d", r.Start, r.End, next,
			))
		}
		next = r.End + 1
	}
	if next != numSubpartitions {
		return ParallelismAndInputInfos{}, newInvalidState(errors.Errorf(
			"subpartition ranges cover %d of %d subpartitions", next, numSubpartitions,
		))
	}

	log.Info("vertex {}: even-data path chose parallelism {}", vertexID, len(ranges))
	return buildInputInfos(consumedResults, ranges), nil
}

// legalize adjusts the packing limit so the resulting range count falls
// within [min, max], preferring the most even distribution achievable at
// that count. steps counts the bisection passes performed (1 or 2),
// reported regardless of whether legalization ultimately succeeds.
func (d *ParallelismDecider) legalize(w []int64, limit int64, p0 int) (ranges []IndexRange, steps int, ok bool) {
	minW := lo.Min(w)
	totalW := lo.Sum(w)
	min, max := int64(d.cfg.MinParallelism), int64(d.cfg.MaxParallelism)

	var adoptedLimit int64
	switch {
	case int64(p0) < min:
		l1 := findMaxLegal(func(v int64) bool {
			return int64(countRanges(w, v)) >= min
		}, minW, limit)
		steps++
		pStar := int64(countRanges(w, l1))
		l2 := findMinLegal(func(v int64) bool {
			return int64(countRanges(w, v)) == pStar
		}, minW, l1)
		steps++
		adoptedLimit = l2

	case int64(p0) > max:
		adoptedLimit = findMinLegal(func(v int64) bool {
			return int64(countRanges(w, v)) <= max
		}, limit, totalW)
		steps++

	default:
		// unreachable: caller only invokes legalize when p0 is outside [min, max]
		adoptedLimit = limit
	}

	ranges = packRanges(w, adoptedLimit)
	p := len(ranges)
	if p < d.cfg.MinParallelism || p > d.cfg.MaxParallelism {
		return nil, steps, false
	}
	return ranges, steps, true
}

// uniformSubpartitionCount validates that every partition of every
// non-broadcast result agrees on the number of subpartitions, and
// returns that shared count. Fails with ErrInvalidState otherwise.
func uniformSubpartitionCount(nonBroadcasts []BlockingResultInfo) (int, error) {
	var count = -1
	var causes []error
	for _, r := range nonBroadcasts {
		for p := 0; p < r.NumPartitions(); p++ {
			n := r.NumSubpartitions(p)
			if count == -1 {
				count = n
				continue
			}
			if n != count {
				causes = append(causes, errors.Errorf(
					"result %s partition %d has %d subpartitions, expected %d", r.ID(), p, n, count,
				))
			}
		}
	}
	if len(causes) > 0 {
		return 0, newInvalidState(causes...)
	}
	if count == -1 {
		return 0, nil
	}
	return count, nil
}
