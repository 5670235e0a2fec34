package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSleeper struct {
	calls []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.calls = append(f.calls, d)
	return ctx.Err()
}

func TestSuperviseRestartsAfterFault(t *testing.T) {
	sleeper := &fakeSleeper{}
	attempts := 0
	run := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("getUpdates: connection reset")
		}
		return nil
	}

	err := Supervise(context.Background(), run, SuperviseOptions{Delay: 5 * time.Second, Sleep: sleeper.Sleep})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, sleeper.calls)
}

func TestSuperviseRecoversPanic(t *testing.T) {
	sleeper := &fakeSleeper{}
	attempts := 0
	run := func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			panic("poller exploded")
		}
		return nil
	}

	require.NoError(t, Supervise(context.Background(), run, SuperviseOptions{Delay: time.Second, Sleep: sleeper.Sleep}))
	assert.Equal(t, 2, attempts)
	assert.Len(t, sleeper.calls, 1)
}

func TestSuperviseStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	run := func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("stopped")
	}

	require.NoError(t, Supervise(ctx, run, SuperviseOptions{Delay: time.Hour}))
	assert.Equal(t, 1, attempts)
}

func TestSuperviseRestartLimit(t *testing.T) {
	sleeper := &fakeSleeper{}
	run := func(ctx context.Context) error { return errors.New("always failing") }

	err := Supervise(context.Background(), run, SuperviseOptions{MaxRestarts: 2, Sleep: sleeper.Sleep})
	require.ErrorIs(t, err, ErrRestartLimit)
	assert.Len(t, sleeper.calls, 2)
}

func TestSuperviseRealSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	run := func(ctx context.Context) error { return errors.New("fault") }

	start := time.Now()
	require.NoError(t, Supervise(ctx, run, SuperviseOptions{Delay: time.Minute}))
	assert.Less(t, time.Since(start), 5*time.Second)
}
