package ui

import (
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// FallbackProvider exposes handlers used when incoming updates
// cannot be mapped to commands, callbacks, or expected documents.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}

// StaticFallbacks answers unmapped updates with fixed hints. Empty strings
// make the corresponding handler a no-op.
type StaticFallbacks struct {
	Text     string
	Document string
	Callback string
}

var _ FallbackProvider = StaticFallbacks{}

// UnknownText replies with the Text hint.
func (f StaticFallbacks) UnknownText() tele.HandlerFunc {
	return replyWith(f.Text)
}

// UnknownDocument replies with the Document hint.
func (f StaticFallbacks) UnknownDocument() tele.HandlerFunc {
	return replyWith(f.Document)
}

// UnknownCallback answers the press, with the Callback hint as a toast.
func (f StaticFallbacks) UnknownCallback() tele.HandlerFunc {
	text := f.Callback
	return func(c tele.Context) error {
		if text == "" {
			return c.Respond()
		}
		return c.Respond(&tele.CallbackResponse{Text: text})
	}
}

func replyWith(text string) tele.HandlerFunc {
	return func(c tele.Context) error {
		if text == "" {
			return nil
		}
		return tghelpers.SendText(c, text)
	}
}
