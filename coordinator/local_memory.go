package coordinator

import (
	"context"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type localMemoryCoordinator struct {
	opt  localMemoryOptions
	data sync.Map

	subscriptions []subscription
	subsLock      sync.RWMutex
}

type subscription struct {
	prefix string
	events chan WatchEvent
}

// NewLocalMemory creates an in-process Coordinator backed by a sync.Map.
// Used by tests that exercise the decider's statistics-provider and
// configuration-source collaborators without standing up etcd.
func NewLocalMemory(opts ...LocalMemoryOption) Coordinator {
	lmc := &localMemoryCoordinator{}
	for _, apply := range opts {
		apply(&lmc.opt)
	}
	return lmc
}

func (lmc *localMemoryCoordinator) simulate(ctx context.Context) error {
	time.Sleep(lmc.opt.simulatedDelay)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return lmc.opt.simulatedError
}

func (lmc *localMemoryCoordinator) Get(ctx context.Context, key string, valuePtr interface{}) error {
	if err := lmc.simulate(ctx); err != nil {
		return err
	}
	v, ok := lmc.data.Load(key)
	if !ok {
		return ErrNotFound
	}
	return v.(RawItem).Unmarshal(valuePtr)
}

func (lmc *localMemoryCoordinator) Scan(ctx context.Context, prefix string) (results []RawItem, err error) {
	if err := lmc.simulate(ctx); err != nil {
		return nil, err
	}
	lmc.data.Range(func(key, value interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			results = append(results, value.(RawItem))
		}
		return true
	})
	return
}

func (lmc *localMemoryCoordinator) Put(ctx context.Context, key string, value interface{}) error {
	if err := lmc.simulate(ctx); err != nil {
		return err
	}
	return lmc.put(key, value)
}

func (lmc *localMemoryCoordinator) put(k string, v interface{}) error {
	raw, err := jsoniter.Marshal(v)
	if err != nil {
		return err
	}
	item := RawItem{
		Key:   k,
		Value: raw,
	}
	lmc.data.Store(k, item)
	go lmc.notifySubscribers(WatchEvent{
		Type: PutEvent,
		Item: item,
	})
	return nil
}

func (lmc *localMemoryCoordinator) Delete(ctx context.Context, prefix string) (deleted int64, err error) {
	if err = lmc.simulate(ctx); err != nil {
		return
	}
	deleted = lmc.delete(prefix)
	return
}

func (lmc *localMemoryCoordinator) delete(prefix string) (deleted int64) {
	lmc.data.Range(func(key, value interface{}) bool {
		k := key.(string)
		if strings.HasPrefix(k, prefix) {
			lmc.data.Delete(k)
			go lmc.notifySubscribers(WatchEvent{
				Type: DeleteEvent,
				Item: RawItem{Key: k},
			})
			deleted++
		}
		return true
	})
	return deleted
}

func (lmc *localMemoryCoordinator) Watch(ctx context.Context, prefix string) chan WatchEvent {
	lmc.subsLock.Lock()
	defer lmc.subsLock.Unlock()

	eventsChan := make(chan WatchEvent)
	lmc.subscriptions = append(lmc.subscriptions, subscription{
		prefix: prefix,
		events: eventsChan,
	})
	return eventsChan
}

func (lmc *localMemoryCoordinator) notifySubscribers(ev WatchEvent) {
	lmc.subsLock.RLock()
	defer lmc.subsLock.RUnlock()

	for _, sub := range lmc.subscriptions {
		if strings.HasPrefix(ev.Item.Key, sub.prefix) {
			sub.events <- ev
		}
	}
}

func (lmc *localMemoryCoordinator) Close() error {
	lmc.subsLock.RLock()
	defer lmc.subsLock.RUnlock()

	for _, sub := range lmc.subscriptions {
		close(sub.events)
	}
	return nil
}

type localMemoryOptions struct {
	simulatedDelay time.Duration
	simulatedError error
}

type LocalMemoryOption func(*localMemoryOptions)

// WithSimulatedDelay makes every Get, Scan, Put and Delete call sleep
// for the given duration before proceeding, to exercise callers' timeout
// handling around the statistics provider and configuration source.
func WithSimulatedDelay(delay time.Duration) LocalMemoryOption {
	return func(opt *localMemoryOptions) {
		opt.simulatedDelay = delay
	}
}

// WithSimulatedError makes every Get, Scan, Put and Delete call fail
// with the given error, to exercise fallback behavior when the
// statistics provider or configuration source is unavailable.
func WithSimulatedError(err error) LocalMemoryOption {
	return func(opt *localMemoryOptions) {
		opt.simulatedError = err
	}
}
