package coordinator

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Coordinator is a minimal, strongly-consistent key/value abstraction.
// adabatch uses it for the two collaborators the decider never touches
// directly (ParallelismDecider.Decide is a pure function): the
// statistics provider that holds finalized BlockingResultInfo snapshots,
// and the configuration source that holds the enumerated options.
type Coordinator interface {
	Get(ctx context.Context, key string, valuePtr interface{}) error
	Scan(ctx context.Context, prefix string) (results []RawItem, err error)
	Put(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, prefix string) (deleted int64, err error)

	// Watch subscribes to modification events of the keys starting with the given prefix.
	Watch(ctx context.Context, prefix string) chan WatchEvent

	Close() error
}
