package parallelism

import (
	"context"
	"fmt"

	"github.com/ab180/adabatch/coordinator"
	"github.com/ab180/adabatch/internal/retry"
	"github.com/ab180/adabatch/internal/structref"
	"github.com/pkg/errors"
)

// StatsStore is the statistics-provider collaborator: it holds the
// finalized BlockingResultInfo snapshot for each upstream result,
// keyed by job vertex and result ID, persisted on top of a
// coordinator.Coordinator. The decider never touches it directly; the
// caller resolves consumedResults from it before invoking Decide.
type StatsStore struct {
	crd    coordinator.Coordinator
	prefix string
}

// NewStatsStore wraps crd as a StatsStore namespaced under prefix (e.g.
// "adabatch/stats/").
func NewStatsStore(crd coordinator.Coordinator, prefix string) *StatsStore {
	return &StatsStore{crd: crd, prefix: prefix}
}

func (s *StatsStore) key(jobVertexID string, resultID ResultID) string {
	return fmt.Sprintf("%s%s/%s", s.prefix, jobVertexID, resultID)
}

// Put persists a finalized BlockingResultInfo for the given job vertex.
// Upstream producers must call this only once the result's byte
// statistics are final.
func (s *StatsStore) Put(ctx context.Context, jobVertexID string, info BlockingResultInfo) error {
	raw, err := structref.Serialize(info)
	if err != nil {
		return errors.Wrap(err, "serialize result info")
	}
	return retry.Do(func() error {
		return s.crd.Put(ctx, s.key(jobVertexID, info.ID()), raw)
	})
}

// ConsumedResults loads every BlockingResultInfo finalized so far for
// the given job vertex, in an unspecified order, for use as
// ParallelismDecider.Decide's consumedResults argument.
func (s *StatsStore) ConsumedResults(ctx context.Context, jobVertexID string) ([]BlockingResultInfo, error) {
	var items []coordinator.RawItem
	err := retry.Do(func() (err error) {
		items, err = s.crd.Scan(ctx, s.prefix+jobVertexID+"/")
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan consumed results")
	}

	results := make([]BlockingResultInfo, 0, len(items))
	for _, item := range items {
		var raw []byte
		if err := item.Unmarshal(&raw); err != nil {
			return nil, errors.Wrapf(err, "unmarshal raw payload for %s", item.Key)
		}
		v, err := structref.Deserialize(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve result info for %s", item.Key)
		}
		info, ok := v.(BlockingResultInfo)
		if !ok {
			return nil, errors.Errorf("%s does not hold a BlockingResultInfo", item.Key)
		}
		results = append(results, info)
	}
	return results, nil
}
