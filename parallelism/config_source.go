package parallelism

import (
	"context"

	"github.com/ab180/adabatch/coordinator"
	"github.com/ab180/adabatch/internal/retry"
	"github.com/pkg/errors"
)

// ConfigSource is the configuration-source collaborator: it loads the
// four enumerated options once per job from a coordinator.Coordinator,
// as one Config value stored under a single key.
type ConfigSource struct {
	crd coordinator.Coordinator
	key string
}

// NewConfigSource wraps crd as a ConfigSource reading the Config value
// stored at key (e.g. "adabatch/config/<jobID>").
func NewConfigSource(crd coordinator.Coordinator, key string) *ConfigSource {
	return &ConfigSource{crd: crd, key: key}
}

// Load fetches and validates the Config for this job. If no
// configuration has been published yet, it returns DefaultConfig.
func (c *ConfigSource) Load(ctx context.Context) (Config, error) {
	var raw Config
	err := retry.Do(func() error {
		return c.crd.Get(ctx, c.key, &raw)
	})
	if errors.Is(err, coordinator.ErrNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	return NewConfig(raw)
}

// Publish validates and persists cfg as the Config for this job.
func (c *ConfigSource) Publish(ctx context.Context, cfg Config) error {
	cfg, err := NewConfig(cfg)
	if err != nil {
		return err
	}
	return retry.Do(func() error {
		return c.crd.Put(ctx, c.key, cfg)
	})
}
