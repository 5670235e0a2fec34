package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	keyMeta ctxKey = iota
	keyLogger
)

// meta is the per-update correlation data carried through a context.
// It is copied on every change so parents never observe child fields.
type meta struct {
	rid      string
	traceID  string
	handler  string
	updateID int
	userID   int64
	chatID   int64
}

func metaFrom(ctx context.Context) meta {
	if ctx == nil {
		return meta{}
	}
	m, _ := ctx.Value(keyMeta).(meta)
	return m
}

func withMeta(ctx context.Context, edit func(*meta)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	m := metaFrom(ctx)
	edit(&m)
	return context.WithValue(ctx, keyMeta, m)
}

// WithLogger stores log in ctx.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, keyLogger, log)
}

// FromContext returns the logger stored in ctx, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(keyLogger).(*slog.Logger); ok {
			return l
		}
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return withMeta(ctx, func(m *meta) { m.rid = rid })
}

// RIDFrom returns the request correlation id.
func RIDFrom(ctx context.Context) string { return metaFrom(ctx).rid }

// WithUpdateMeta attaches the identifiers of the Telegram update.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return withMeta(ctx, func(m *meta) {
		m.updateID = updateID
		m.userID = userID
		m.chatID = chatID
	})
}

// WithChatID attaches only the chat id, for work not tied to an update.
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return withMeta(ctx, func(m *meta) { m.chatID = chatID })
}

// WithHandler names the handler serving the update. Empty names are ignored.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withMeta(ctx, func(m *meta) { m.handler = handler })
}

// HandlerFrom returns the handler name.
func HandlerFrom(ctx context.Context) string { return metaFrom(ctx).handler }

// WithTrace attaches a trace id. Empty ids are ignored.
func WithTrace(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withMeta(ctx, func(m *meta) { m.traceID = traceID })
}

// TraceIDFrom returns the trace id.
func TraceIDFrom(ctx context.Context) string { return metaFrom(ctx).traceID }

// UserIDFrom returns the Telegram user id.
func UserIDFrom(ctx context.Context) int64 { return metaFrom(ctx).userID }

// ChatIDFrom returns the chat id.
func ChatIDFrom(ctx context.Context) int64 { return metaFrom(ctx).chatID }

// UpdateIDFrom returns the update id.
func UpdateIDFrom(ctx context.Context) int { return metaFrom(ctx).updateID }

// contextFields lists the correlation fields of ctx that are set.
func contextFields(ctx context.Context) []field {
	m := metaFrom(ctx)
	out := make([]field, 0, 6)
	if m.rid != "" {
		out = append(out, field{"rid", m.rid})
	}
	if m.traceID != "" {
		out = append(out, field{"trace_id", m.traceID})
	}
	if m.updateID != 0 {
		out = append(out, field{"update_id", int64(m.updateID)})
	}
	if m.userID != 0 {
		out = append(out, field{"user_id", m.userID})
	}
	if m.chatID != 0 {
		out = append(out, field{"chat_id", m.chatID})
	}
	if m.handler != "" {
		out = append(out, field{"handler", m.handler})
	}
	return out
}
