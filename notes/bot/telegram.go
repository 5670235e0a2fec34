package bot

import (
	"context"
	"strconv"

	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// teleMessenger sends through the outbound dispatcher.
type teleMessenger struct {
	api tele.API
}

var _ Messenger = teleMessenger{}

func (m teleMessenger) Send(ctx context.Context, chatID int64, msg Outgoing) (int, error) {
	opts := &tele.SendOptions{ReplyMarkup: msg.Markup}
	if msg.ReplyTo != 0 {
		opts.ReplyTo = &tele.Message{ID: msg.ReplyTo, Chat: &tele.Chat{ID: chatID}}
	}
	sent, err := tghelpers.SendTo(ctx, m.api, &tele.Chat{ID: chatID}, msg.Text, opts)
	if err != nil {
		return 0, err
	}
	return sent.ID, nil
}

func (m teleMessenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	return tghelpers.DeleteMessage(ctx, m.api, tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}
