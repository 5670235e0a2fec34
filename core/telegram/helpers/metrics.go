package helpers

import (
	"context"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

type countersKey struct{}

// Counters tallies the outbound traffic of one update.
type Counters struct {
	messages atomic.Int64
	deleted  atomic.Int64
	keyboard atomic.Bool
}

// WithCounters attaches fresh Counters to ctx.
func WithCounters(ctx context.Context) (context.Context, *Counters) {
	c := &Counters{}
	return context.WithValue(ctx, countersKey{}, c), c
}

// CountersFrom returns the Counters of ctx or nil.
func CountersFrom(ctx context.Context) *Counters {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(countersKey{}).(*Counters)
	return c
}

// Messages is the number of messages sent.
func (c *Counters) Messages() int { return int(c.messages.Load()) }

// Deleted is the number of messages deleted.
func (c *Counters) Deleted() int { return int(c.deleted.Load()) }

// Keyboard reports whether any sent message carried reply markup.
func (c *Counters) Keyboard() bool { return c.keyboard.Load() }

func recordSent(ctx context.Context, opts []any) {
	c := CountersFrom(ctx)
	if c == nil {
		return
	}
	c.messages.Add(1)
	if hasMarkup(opts) {
		c.keyboard.Store(true)
	}
}

func recordDeleted(ctx context.Context) {
	if c := CountersFrom(ctx); c != nil {
		c.deleted.Add(1)
	}
}

func hasMarkup(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}
