// Package waiter provides bounded polling for remote conditions.
//
// A Waiter repeatedly evaluates a condition with backoff until the condition
// reaches a definite answer, fails permanently, or the configured bound
// elapses. It never blocks indefinitely: the caller always gets a definite
// outcome or ErrWaitTimeout.
package waiter

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
)

const (
	// DefaultInterval is the delay between polls when none is configured
	DefaultInterval = 100 * time.Millisecond

	// DefaultTimeout bounds the total wait when none is configured
	DefaultTimeout = time.Minute
)

// errNotDone signals the backoff loop to keep polling.
var errNotDone = stderrors.New("waiter: condition not met")

// Condition is evaluated on every poll. Returning done=true stops the wait
// successfully. Returning a non-nil error stops the wait immediately with
// that error. Returning (false, nil) schedules another poll.
type Condition func(ctx context.Context) (done bool, err error)

// Waiter polls a condition with exponential backoff up to a fixed bound.
// The zero value uses DefaultInterval and DefaultTimeout.
type Waiter struct {
	// Interval is the initial delay between polls
	Interval time.Duration

	// MaxInterval caps the backoff delay; zero keeps the delay fixed at Interval
	MaxInterval time.Duration

	// Timeout bounds the total elapsed wait
	Timeout time.Duration

	// Clock overrides time measurement, for tests
	Clock backoff.Clock
}

// Wait polls cond until it reports done, returns an error, the timeout
// elapses, or ctx is canceled. An elapsed timeout is reported as
// errors.ErrWaitTimeout.
func (w Waiter) Wait(ctx context.Context, cond Condition) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxInterval := w.MaxInterval
	if maxInterval <= 0 {
		maxInterval = interval
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = timeout
	b.RandomizationFactor = 0
	if w.Clock != nil {
		b.Clock = w.Clock
	}
	b.Reset()

	operation := func() error {
		done, err := cond(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errNotDone
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	if err == nil {
		return nil
	}
	if stderrors.Is(err, errNotDone) {
		return errors.NewError("wait", errors.ErrWaitTimeout)
	}
	return err
}
