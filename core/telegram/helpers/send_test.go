package helpers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/sender"
)

type fakeAPI struct {
	tele.API
	sent    []string
	opts    [][]any
	deleted []tele.Editable
	actions []tele.ChatAction
	nextID  int
}

func (f *fakeAPI) Notify(_ tele.Recipient, action tele.ChatAction, _ ...int) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAPI) Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	f.nextID++
	f.sent = append(f.sent, what.(string))
	f.opts = append(f.opts, opts)
	return &tele.Message{ID: f.nextID, Chat: &tele.Chat{ID: 1}}, nil
}

func (f *fakeAPI) Delete(msg tele.Editable) error {
	f.deleted = append(f.deleted, msg)
	return nil
}

func TestSendToThroughDispatcher(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{Workers: 2})
	SetDispatcher(d)
	t.Cleanup(func() {
		SetDispatcher(nil)
		d.Close()
	})

	api := &fakeAPI{}
	ctx := logger.WithChatID(context.Background(), 1)
	msg, err := SendTo(ctx, api, &tele.Chat{ID: 1}, "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, msg.ID)

	require.NoError(t, DeleteMessage(ctx, api, msg))
	assert.Len(t, api.deleted, 1)
}

func TestTypingIsQueuedAheadOfNextSend(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{Workers: 1})
	SetDispatcher(d)
	t.Cleanup(func() {
		SetDispatcher(nil)
		d.Close()
	})

	api := &fakeAPI{}
	ctx := logger.WithChatID(context.Background(), 3)
	require.NoError(t, Typing(ctx, api, &tele.Chat{ID: 3}))
	_, err := SendTo(ctx, api, &tele.Chat{ID: 3}, "answer")
	require.NoError(t, err)

	assert.Equal(t, []tele.ChatAction{tele.Typing}, api.actions)
	assert.Equal(t, []string{"answer"}, api.sent)
}

func TestTypingWithoutDispatcherRunsInline(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, Typing(context.Background(), api, &tele.Chat{ID: 1}))
	assert.Equal(t, []tele.ChatAction{tele.Typing}, api.actions)
}

func TestSendLongPutsMarkupOnLastChunk(t *testing.T) {
	api := &fakeAPI{}
	text := strings.Repeat("line of text\n", 700)
	markup := &tele.ReplyMarkup{RemoveKeyboard: true}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}

	msgs, err := SendLong(context.Background(), api, &tele.Chat{ID: 1}, text, opts)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i, o := range api.opts {
		require.Len(t, o, 1)
		so := o[0].(*tele.SendOptions)
		assert.Equal(t, tele.ModeMarkdown, so.ParseMode)
		if i < 2 {
			assert.Nil(t, so.ReplyMarkup)
		} else {
			assert.Same(t, markup, so.ReplyMarkup)
		}
	}
	assert.Equal(t, text, strings.Join(api.sent, ""))
}
