package middleware

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/callbacks"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware builds the request context of an update (rid, trace id,
// update/chat/user ids, the tg logger), stores it on the telebot context
// and logs a sampled receipt line.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		ctx := logger.WithTrace(tghelpers.BuildContext(c), uuid.NewString())
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug("update.received") {
			logger.Debug(ctx, logger.CompTG, "update.received", receiptAttrs(c, upd)...)
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context, upd tele.Update) []slog.Attr {
	attrs := []slog.Attr{slog.String("status", logger.StatusOK)}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil && user.LanguageCode != "" {
		attrs = append(attrs, slog.String("lang", user.LanguageCode))
	}
	switch {
	case upd.Callback != nil:
		key, payload := callbacks.ParseCallbackData(upd.Callback)
		if key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		}
		if payload != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
		}
	case upd.Message != nil:
		if upd.Message.Document != nil {
			attrs = append(attrs, slog.String("kind", "document"))
		} else if t := c.Text(); t != "" {
			attrs = append(attrs, slog.Int("text_chars", len([]rune(t))))
		}
	}
	return attrs
}
