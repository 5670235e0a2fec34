package router

import (
	"log/slog"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tg "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions overrides the registry's not-found handler.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches button presses by their unique key. Known keys
// get an empty answer first so the client spinner stops; unknown keys are
// answered by the not-found handler itself.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	return tg.Route{Endpoint: tele.OnCallback, Handler: func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		start := time.Now()
		key, payload := callbacks.ParseCallbackData(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		attrs := []slog.Attr{slog.String("cb_key", key)}
		if payload != "" {
			attrs = append(attrs, slog.String("cb_payload", logger.SanitizeLimit(payload, 64)))
		}

		if h, ok := reg.Callback(key); ok {
			_ = c.Respond()
			return handleWithSummary(c, name, start, "", func() error { return h(c) }, attrs...)
		}

		miss := opts.NotFound
		if miss == nil {
			miss = reg.CallbackNotFound()
		}
		attrs = append(attrs, slog.String("cause", "not_found"))
		return handleWithSummary(c, name, start, logger.StatusSkip, func() error {
			if miss == nil {
				return c.Respond()
			}
			return miss(c)
		}, attrs...)
	}}
}
