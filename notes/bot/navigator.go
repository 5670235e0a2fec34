package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/notes/menu"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/notes/tracker"

	tele "gopkg.in/telebot.v4"
)

// ErrUnknownNote is returned by Note for keys missing from the table.
var ErrUnknownNote = errors.New("notes: unknown note key")

// Outgoing is one message to send.
type Outgoing struct {
	Text    string
	Markup  *tele.ReplyMarkup
	ReplyTo int
}

// Messenger sends and deletes chat messages.
type Messenger interface {
	tracker.Deleter
	Send(ctx context.Context, chatID int64, msg Outgoing) (int, error)
}

// Navigator implements the menu screens. Every message it sends is tracked
// except the final goodbye.
type Navigator struct {
	table   *menu.Table
	tracker *tracker.Tracker
	msgr    Messenger
}

// NewNavigator returns a Navigator sending through msgr.
func NewNavigator(table *menu.Table, tr *tracker.Tracker, msgr Messenger) *Navigator {
	return &Navigator{table: table, tracker: tr, msgr: msgr}
}

func (n *Navigator) trackAndSend(ctx context.Context, chatID int64, msg Outgoing) error {
	id, err := n.msgr.Send(ctx, chatID, msg)
	if err != nil {
		return err
	}
	n.tracker.Track(chatID, id)
	return nil
}

// Start shows the main menu.
func (n *Navigator) Start(ctx context.Context, chatID int64) error {
	return n.trackAndSend(ctx, chatID, Outgoing{Text: menu.MenuText, Markup: menu.MainMarkup()})
}

// Content shows the resource chooser.
func (n *Navigator) Content(ctx context.Context, chatID int64) error {
	return n.trackAndSend(ctx, chatID, Outgoing{Text: menu.ContentText, Markup: n.table.ContentMarkup()})
}

// Contact sends the contact line, as a reply when replyTo is set.
func (n *Navigator) Contact(ctx context.Context, chatID int64, replyTo int) error {
	return n.trackAndSend(ctx, chatID, Outgoing{Text: menu.ContactText, ReplyTo: replyTo})
}

// Note sends the link for key followed by the continue prompt.
func (n *Navigator) Note(ctx context.Context, chatID int64, key string) error {
	link, ok := n.table.Dispatch(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNote, key)
	}
	if err := n.trackAndSend(ctx, chatID, Outgoing{Text: link.Text()}); err != nil {
		return err
	}
	return n.trackAndSend(ctx, chatID, Outgoing{Text: menu.ContinueText, Markup: menu.ConfirmMarkup()})
}

// Continue returns to the main menu.
func (n *Navigator) Continue(ctx context.Context, chatID int64) error {
	return n.Start(ctx, chatID)
}

// Stop removes every tracked message and says goodbye. Deletion failures
// are logged only.
func (n *Navigator) Stop(ctx context.Context, chatID int64) error {
	tracked := len(n.tracker.Messages(chatID))
	if err := n.tracker.Teardown(ctx, chatID, n.msgr); err != nil {
		logger.Warn(ctx, logger.CompNotes, "teardown.partial",
			slog.String("status", "fail"),
			slog.Int("tracked", tracked),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	} else {
		logger.Debug(ctx, logger.CompNotes, "teardown.done", slog.Int("tracked", tracked))
	}
	_, err := n.msgr.Send(ctx, chatID, Outgoing{Text: menu.GoodbyeText})
	return err
}
