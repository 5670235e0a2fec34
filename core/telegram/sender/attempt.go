package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/netutil"
)

// execute runs c until it succeeds, fails permanently, runs out of attempts
// or exceeds MaxDuration.
func (d *Dispatcher) execute(c call) error {
	ctx, cancel := context.WithTimeout(c.ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	base := callAttrs(c)
	logger.Debug(c.ctx, logger.CompSender, "send.start", base...)

	limit := d.opts.MaxRetries + 1
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			logFailure(c, base, err, netutil.Classify(err), attempt-1, start)
			return err
		}
		err := c.fn()
		if err == nil {
			attrs := append(base, slog.Duration("duration", time.Since(start)))
			if attempt > 1 {
				attrs = append(attrs, slog.Int("attempt", attempt))
				logger.Info(c.ctx, logger.CompSender, "send.retry.success", attrs...)
			} else {
				logger.Debug(c.ctx, logger.CompSender, "send.success", attrs...)
			}
			return nil
		}

		verdict := netutil.Classify(err)
		if !verdict.Retry || attempt >= limit {
			logFailure(c, base, err, verdict, attempt, start)
			return err
		}

		wait := d.opts.RetryBackoff * time.Duration(attempt)
		if verdict.After > wait {
			wait = verdict.After
		}
		logger.Debug(c.ctx, logger.CompSender, "send.retry.backoff",
			append(base,
				slog.Int("attempt", attempt),
				slog.String("error_kind", string(verdict.Kind)),
				slog.Duration("delay", wait),
			)...,
		)
		if werr := pause(ctx, wait); werr != nil {
			logFailure(c, base, werr, netutil.Classify(werr), attempt, start)
			return werr
		}
	}
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func callAttrs(c call) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)
	attrs = append(attrs, slog.String("action", c.action))
	if c.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", c.endpoint))
	}
	return attrs[:len(attrs):len(attrs)]
}

func logFailure(c call, base []slog.Attr, err error, v netutil.Verdict, attempts int, start time.Time) {
	attrs := append(base,
		slog.String("status", logger.StatusFail),
		slog.String("error", netutil.Redact(err.Error())),
		slog.String("error_kind", string(v.Kind)),
		slog.Int("attempts", attempts),
		slog.Duration("duration", time.Since(start)),
	)
	if v.Code != 0 {
		attrs = append(attrs, slog.Int("err_code", v.Code))
	}
	logger.Error(c.ctx, logger.CompSender, "send.fail", attrs...)
}
