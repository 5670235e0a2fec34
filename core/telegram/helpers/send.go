package helpers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/format"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the outbound sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// Do runs an outbound call through the dispatcher and waits for its result,
// keeping per-chat order. Without a dispatcher, or when the queue rejects the
// job, the call runs inline.
func Do(ctx context.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}
	err := disp.Do(ctx, action, endpoint, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, logger.CompSender, "queue.fallback",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// SendTo sends what to the recipient and returns the sent message.
func SendTo(ctx context.Context, bot tele.API, to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	var msg *tele.Message
	err := Do(ctx, "send.text", "sendMessage", func() error {
		m, err := bot.Send(to, what, opts...)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	recordSent(ctx, opts)
	return msg, nil
}

// SendLong sends text split at Telegram's length limit. The parse mode of
// opts applies to every chunk; its reply markup only to the last one.
func SendLong(ctx context.Context, bot tele.API, to tele.Recipient, text string, opts *tele.SendOptions) ([]*tele.Message, error) {
	chunks := format.SplitMessage(text, format.MaxMessageLength)
	out := make([]*tele.Message, 0, len(chunks))
	for i, chunk := range chunks {
		var chunkOpts []any
		if opts != nil {
			o := *opts
			if i < len(chunks)-1 {
				o.ReplyMarkup = nil
			}
			chunkOpts = append(chunkOpts, &o)
		}
		msg, err := SendTo(ctx, bot, to, chunk, chunkOpts...)
		if err != nil {
			return out, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// DeleteMessage removes a previously sent message.
func DeleteMessage(ctx context.Context, bot tele.API, msg tele.Editable) error {
	err := Do(ctx, "delete", "deleteMessage", func() error {
		return bot.Delete(msg)
	})
	if err == nil {
		recordDeleted(ctx)
	}
	return err
}

// Post queues a best-effort call without waiting for it. Only a rejected
// job is reported. Without a dispatcher the call runs inline.
func Post(ctx context.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}
	return disp.Enqueue(ctx, action, endpoint, run)
}

// Typing shows the "typing" chat action. It is queued ahead of the next
// message to the same chat and not awaited.
func Typing(ctx context.Context, bot tele.API, to tele.Recipient) error {
	return Post(ctx, "typing", "sendChatAction", func() error {
		return bot.Notify(to, tele.Typing)
	})
}

// SendText replies with plain text in the current chat.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts []any
	if len(opts) > 0 && opts[0] != nil {
		sendOpts = append(sendOpts, opts[0])
	}
	ctx := BuildContext(c)
	err := Do(ctx, "send.text", "sendMessage", func() error {
		return c.Send(text, sendOpts...)
	})
	if err == nil {
		recordSent(ctx, sendOpts)
	}
	return err
}
