package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
)

// ErrRestartLimit is returned when the supervisor gives up after MaxRestarts.
var ErrRestartLimit = errors.New("telegram: restart limit reached")

// SuperviseOptions configures Supervise.
type SuperviseOptions struct {
	// Delay is the fixed pause between a fault and the next attempt.
	Delay time.Duration
	// MaxRestarts bounds the number of restarts; 0 means unbounded.
	MaxRestarts int
	// Sleep waits for d or until ctx is done. Tests inject a fake.
	Sleep func(ctx context.Context, d time.Duration) error
}

// PanicError wraps a value recovered from a panicking run loop.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("run loop panic: %v", e.Value)
}

// Supervise keeps run alive: whenever it returns an error or panics while ctx
// is still active, Supervise waits Delay and starts it again. It returns nil
// once ctx is cancelled or run finishes cleanly.
func Supervise(ctx context.Context, run func(ctx context.Context) error, opts SuperviseOptions) error {
	if run == nil {
		return fmt.Errorf("telegram: nil run function")
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	restarts := 0
	for {
		err := runGuarded(ctx, run)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		if opts.MaxRestarts > 0 && restarts >= opts.MaxRestarts {
			return fmt.Errorf("%w after %d restarts: %w", ErrRestartLimit, restarts, err)
		}
		restarts++

		logger.Error(ctx, logger.CompTG, "loop.fault",
			slog.String("status", "retry"),
			slog.String("err", err.Error()),
			slog.Int("restarts", restarts),
			slog.Duration("backoff", opts.Delay),
		)
		if err := sleep(ctx, opts.Delay); err != nil {
			return nil
		}
		logger.Info(ctx, logger.CompTG, "loop.resume", slog.Int("restarts", restarts))
	}
}

func runGuarded(ctx context.Context, run func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return run(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
