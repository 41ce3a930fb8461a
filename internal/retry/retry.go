// Package retry retries a fallible operation with a fixed delay between
// attempts. adabatch uses it to wrap calls to the statistics provider and
// configuration source collaborators, which are plain key/value lookups
// that can transiently fail without indicating the decider itself is
// wrong.
package retry

import (
	"errors"
	"fmt"
	"time"
)

// DoWithResult runs fn, retrying with a fixed delay between attempts
// until it succeeds or it has failed the maximum retry count of times
// (that count includes the first attempt).
func DoWithResult[T any](fn func() (T, error), opts ...OptionFunc) (T, error) {
	opt := defaultOption()
	for _, o := range opts {
		o(&opt)
	}

	var retryCount int
	for {
		t, err := fn()
		if err == nil {
			return t, nil
		}

		retryCount++
		if retryCount >= opt.maxRetryCount {
			return t, errors.Join(err, fmt.Errorf("retry count exceeded: %d", retryCount))
		}
		time.Sleep(opt.delay)
	}
}

// Do runs fn, retrying with a fixed delay between attempts until it
// succeeds or it has failed the maximum retry count of times.
func Do(fn func() error, opts ...OptionFunc) error {
	_, err := DoWithResult(func() (struct{}, error) {
		return struct{}{}, fn()
	}, opts...)
	return err
}
