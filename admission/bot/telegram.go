package bot

import (
	"context"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/flow"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// chatReplier sends flow replies to one chat through the outbound dispatcher.
type chatReplier struct {
	api  tele.API
	chat tele.Recipient
}

var _ flow.Replier = chatReplier{}

func (r chatReplier) Send(ctx context.Context, reply flow.Reply) error {
	opts := &tele.SendOptions{ReplyMarkup: markupFor(reply.Keyboard)}
	if reply.Markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	_, err := tghelpers.SendLong(ctx, r.api, r.chat, reply.Text, opts)
	return err
}

func (r chatReplier) Typing(ctx context.Context) error {
	return tghelpers.Typing(ctx, r.api, r.chat)
}

func markupFor(k flow.Keyboard) *tele.ReplyMarkup {
	switch k {
	case flow.KeyboardMain:
		return keyboard.ReplyButtons([]string{flow.ButtonAsk, flow.ButtonTuition})
	case flow.KeyboardConfirm:
		return keyboard.OneTimeReplyButtons([]string{flow.ButtonYes, flow.ButtonNo})
	case flow.KeyboardRemove:
		return keyboard.RemoveKeyboard()
	}
	return nil
}
