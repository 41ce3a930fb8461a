package parallelism

import (
	"github.com/creasty/defaults"
	"github.com/pkg/errors"
)

// broadcastCapRatio is the maximum fraction of the per-task data budget
// that broadcast data may consume when sizing parallelism.
const broadcastCapRatio = 0.5

// Config holds the four options the decider accepts. Option keys, in
// canonical form, mirror adaptive-batch-scheduler.{max,min}-parallelism,
// ...avg-data-volume-per-task and ...default-source-parallelism.
type Config struct {
	MinParallelism           int   `default:"1"`
	MaxParallelism           int   `default:"128"`
	DataVolumePerTask        int64 `default:"1073741824"`
	DefaultSourceParallelism int   `default:"1"`
}

// DefaultConfig returns a Config populated with library defaults. It
// panics only on a library misuse (a malformed default tag), never on
// user input.
func DefaultConfig() (c Config) {
	if err := defaults.Set(&c); err != nil {
		panic(err)
	}
	return
}

// NewConfig validates cfg and returns ErrConfigInvalid if it violates
// any of the configuration invariants.
func NewConfig(cfg Config) (Config, error) {
	if cfg.MinParallelism <= 0 {
		return Config{}, errors.Wrap(ErrConfigInvalid, "minParallelism must be > 0")
	}
	if cfg.MaxParallelism < cfg.MinParallelism {
		return Config{}, errors.Wrap(ErrConfigInvalid, "maxParallelism must be >= minParallelism")
	}
	if cfg.DataVolumePerTask <= 0 {
		return Config{}, errors.Wrap(ErrConfigInvalid, "dataVolumePerTask must be > 0")
	}
	if cfg.DefaultSourceParallelism <= 0 {
		return Config{}, errors.Wrap(ErrConfigInvalid, "defaultSourceParallelism must be > 0")
	}
	return cfg, nil
}

// broadcastCap returns the maximum number of bytes broadcast data may
// contribute to the per-task byte budget: ceil(dataVolumePerTask * 0.5).
// Computed with integer division since broadcastCapRatio is fixed at
// one half, to avoid floating-point rounding on large byte volumes.
func (c Config) broadcastCap() int64 {
	return (c.DataVolumePerTask + 1) / 2
}
