package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const maxStackBytes = 8 << 10

// RecoverMiddleware converts a handler panic into an error for that update.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			if len(stack) > maxStackBytes {
				stack = stack[:maxStackBytes]
			}
			ctx := tghelpers.BuildContext(c)
			logger.Error(ctx, logger.CompTG, "handler.panic",
				slog.String("status", logger.StatusFail),
				slog.String("handler", logger.HandlerFrom(ctx)),
				slog.String("err", fmt.Sprint(r)),
				slog.String("stack", string(stack)),
			)
			err = fmt.Errorf("handler panic: %v", r)
		}()
		return next(c)
	}
}
