// Package keyboard builds reply and inline keyboards.
package keyboard

import (
	"slices"

	tele "gopkg.in/telebot.v4"
)

// InlineBtn is an inline button routed by Unique.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// RemoveKeyboard hides the current reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// ReplyButtons builds a resized reply keyboard, one slice per row.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	return reply(false, rows)
}

// OneTimeReplyButtons is ReplyButtons that hides after one tap.
func OneTimeReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	return reply(true, rows)
}

func reply(oneTime bool, rows [][]string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: oneTime}
	kb := make([]tele.Row, 0, len(rows))
	for _, labels := range rows {
		row := make(tele.Row, len(labels))
		for i, label := range labels {
			row[i] = m.Text(label)
		}
		kb = append(kb, row)
	}
	m.Reply(kb...)
	return m
}

// InlineButtons puts every button on its own row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	return InlineButtonsNPerRow(buttons, 1)
}

// InlineButtonsNPerRow fills rows of up to n buttons in order.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	for chunk := range slices.Chunk(buttons, max(n, 1)) {
		row := make([]tele.InlineButton, len(chunk))
		for i, b := range chunk {
			row[i] = *m.Data(b.Text, b.Unique, b.Data).Inline()
		}
		m.InlineKeyboard = append(m.InlineKeyboard, row)
	}
	return m
}
