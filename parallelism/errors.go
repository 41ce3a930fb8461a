package parallelism

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Sentinel errors identifying the three failure kinds the decider can
// surface. Use errors.Is against these, not string matching.
var (
	// ErrInvalidArgument is returned when initialParallelism is neither
	// UNSET nor positive.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when the consumed results disagree on
	// subpartition count, or a self-check on the produced ranges fails.
	ErrInvalidState = errors.New("invalid state")

	// ErrConfigInvalid is returned by NewConfig when the supplied values
	// violate the configuration invariants.
	ErrConfigInvalid = errors.New("invalid configuration")
)

// newInvalidState aggregates one or more independent causes (e.g. several
// results disagreeing on subpartition count) into a single InvalidState
// error, the way driver/result.go aggregates task failures.
func newInvalidState(causes ...error) error {
	merr := &multierror.Error{}
	for _, c := range causes {
		merr = multierror.Append(merr, c)
	}
	if merr.ErrorOrNil() == nil {
		return nil
	}
	return errors.Wrap(ErrInvalidState, merr.Error())
}
