package helpers

import (
	"context"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"

	tele "gopkg.in/telebot.v4"
)

// ctxStoreKey is the tele.Context slot that carries the update's context.
const ctxStoreKey = "hamoza.ctx"

// StoreContext saves ctx on the update for later helpers and handlers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(ctxStoreKey, ctx)
	}
}

// ContextFrom returns the context saved by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxStoreKey).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext returns the update's context, creating it on first use with
// the request id, update, chat and user ids and a tg-scoped logger.
func BuildContext(c tele.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}

	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	updateID := c.Update().ID

	ctx := logger.WithLogger(context.Background(), logger.Component(logger.CompTG))
	ctx = logger.WithRID(ctx, logger.BuildRID(updateID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	StoreContext(c, ctx)
	return ctx
}

// WithHandler records the handler name on the update's context.
func WithHandler(c tele.Context, name string) context.Context {
	ctx := BuildContext(c)
	if name != "" {
		ctx = logger.WithHandler(ctx, name)
		StoreContext(c, ctx)
	}
	return ctx
}
