package middleware

import (
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// MessageMetricsMiddleware attaches per-update outbound counters to the
// request context. Helpers that send or delete through the dispatcher
// update them.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, _ := tghelpers.WithCounters(tghelpers.BuildContext(c))
		tghelpers.StoreContext(c, ctx)
		return next(c)
	}
}

// GetCounters returns the sent and deleted message counts and whether a
// keyboard was shown while handling the update.
func GetCounters(c tele.Context) (sent, deleted int, kb bool) {
	ctx, ok := tghelpers.ContextFrom(c)
	if !ok {
		return 0, 0, false
	}
	m := tghelpers.CountersFrom(ctx)
	if m == nil {
		return 0, 0, false
	}
	return m.Messages(), m.Deleted(), m.Keyboard()
}
