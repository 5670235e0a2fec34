// Package tracker remembers the bot messages sent to each chat so they can be
// removed together when the user leaves the menu.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the deletions of one teardown that are in flight
// at once.
const DefaultConcurrency = 4

// Deleter removes one message from a chat.
type Deleter interface {
	Delete(ctx context.Context, chatID int64, messageID int) error
}

// DeleteError reports a message that could not be removed.
type DeleteError struct {
	MessageID int
	Err       error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete message %d: %v", e.MessageID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// Tracker is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	chats       map[int64][]int
	concurrency int
}

// New returns an empty Tracker. concurrency <= 0 means DefaultConcurrency.
func New(concurrency int) *Tracker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Tracker{chats: make(map[int64][]int), concurrency: concurrency}
}

// Track appends messageID to the chat's list.
func (t *Tracker) Track(chatID int64, messageID int) {
	t.mu.Lock()
	t.chats[chatID] = append(t.chats[chatID], messageID)
	t.mu.Unlock()
}

// Messages returns a copy of the chat's list in send order.
func (t *Tracker) Messages(chatID int64) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.chats[chatID]...)
}

// Teardown deletes every tracked message of the chat. Failures do not stop
// the other deletions and the list is empty afterwards either way; the
// returned error joins one DeleteError per failed message.
//
// Up to the tracker's concurrency limit of Delete calls are issued at once.
// A Deleter that goes through the per-chat outbound dispatcher still runs
// them one after another; the group then only keeps one failed deletion from
// holding up the rest.
func (t *Tracker) Teardown(ctx context.Context, chatID int64, d Deleter) error {
	t.mu.Lock()
	ids := t.chats[chatID]
	delete(t.chats, chatID)
	t.mu.Unlock()

	if len(ids) == 0 || d == nil {
		return nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(t.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := d.Delete(ctx, chatID, id); err != nil {
				mu.Lock()
				errs = append(errs, &DeleteError{MessageID: id, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
