package router

import (
	"strings"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tg "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FSM owns the text of chats that are inside a dialog.
type FSM interface {
	InProgress(chatID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions sets the last-resort handlers for text and documents.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes routes text in this order: a registered command (also when
// written as "/cmd@bot args"), the FSM of an active dialog, the registry's
// text fallback, UnknownText. Documents only ever reach UnknownDocument.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	onText := func(c tele.Context) error {
		start := time.Now()
		name, h := pickTextHandler(c, fsm, reg, opts.UnknownText)
		if h == nil {
			logHandlerSummary(c, name, start, logger.StatusSkip, nil)
			return nil
		}
		return handleWithSummary(c, name, start, "", func() error { return h(c) })
	}
	onDocument := func(c tele.Context) error {
		start := time.Now()
		if opts.UnknownDocument == nil {
			logHandlerSummary(c, "unexpected_document", start, logger.StatusSkip, nil)
			return nil
		}
		return handleWithSummary(c, "unexpected_document", start, "", func() error {
			return opts.UnknownDocument(c)
		})
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: onText},
		{Endpoint: tele.OnDocument, Handler: onDocument},
	}
}

func pickTextHandler(c tele.Context, fsm FSM, reg *tg.Registry, unknown tele.HandlerFunc) (string, tele.HandlerFunc) {
	text := c.Text()
	if reg != nil && strings.HasPrefix(text, "/") {
		if name, cmd, ok := reg.Command(commandWord(text)); ok && cmd.Handler != nil {
			return "command." + normalizeHandlerName(name), cmd.Handler
		}
	}
	if chat := c.Chat(); fsm != nil && chat != nil && fsm.InProgress(chat.ID) {
		return "fsm", fsm.ManagerHandler
	}
	if reg != nil {
		if fb := reg.TextFallback(); fb != nil {
			return "fallback", fb
		}
	}
	return "unknown_text", unknown
}

// commandWord drops arguments and the @botname suffix.
func commandWord(text string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	word, _, _ = strings.Cut(word, "@")
	return word
}
