package waiter

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3transfer/errors"
)

func TestWaiter_ImmediateSuccess(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: time.Second}

	calls := 0
	err := w.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWaiter_EventualSuccess(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: time.Second}

	calls := 0
	err := w.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaiter_ConditionError(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: time.Second}

	boom := stderrors.New("boom")
	calls := 0
	err := w.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// A condition error stops the wait immediately
	assert.Equal(t, 1, calls)
}

func TestWaiter_Timeout(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: 25 * time.Millisecond}

	err := w.Wait(context.Background(), func(ctx context.Context) (bool, error) {
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWaitTimeout)
}

func TestWaiter_ContextCanceled(t *testing.T) {
	w := Waiter{Interval: time.Millisecond, Timeout: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Wait(ctx, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
