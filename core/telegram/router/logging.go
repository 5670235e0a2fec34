package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// handleWithSummary runs fn under handlerName and logs one summary line.
// An empty status is derived from the returned error.
func handleWithSummary(c tele.Context, handlerName string, start time.Time, status string, fn func() error, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, handlerName)
	err := fn()
	logHandlerSummary(c, handlerName, start, status, err, extras...)
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, status string, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, handlerName)
	if status == "" {
		status = logger.Status(err)
	}
	sent, deleted, kb := middleware.GetCounters(c)

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.Int("messages", sent),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(start)),
	}
	if deleted > 0 {
		attrs = append(attrs, slog.Int("deleted", deleted))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	attrs = append(attrs, extras...)
	logger.Info(ctx, logger.CompTG, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

// coder is implemented by domain errors that name their own class.
type coder interface{ ErrorCode() string }

// errorCode maps an error to one of the failure classes the bots report.
func errorCode(err error) string {
	var c coder
	var teleErr *tele.Error
	var flood tele.FloodError
	switch {
	case errors.As(err, &c) && c.ErrorCode() != "":
		return c.ErrorCode()
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELLED"
	case errors.As(err, &flood):
		return "FLOOD"
	case errors.As(err, &teleErr):
		return "TELEGRAM_API"
	}
	return "INTERNAL"
}
