package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	store     map[string]any
	sent      []any
	responses []*tele.CallbackResponse
}

func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }
func (f *fakeContext) Update() tele.Update   { return tele.Update{ID: 1} }
func (f *fakeContext) Chat() *tele.Chat      { return &tele.Chat{ID: 5} }
func (f *fakeContext) Sender() *tele.User    { return &tele.User{ID: 5} }

func (f *fakeContext) Send(what any, opts ...any) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	f.responses = append(f.responses, resp...)
	return nil
}

func TestStaticFallbacks(t *testing.T) {
	fb := StaticFallbacks{Text: "Use /start", Callback: "Expired"}
	c := &fakeContext{store: map[string]any{}}

	require.NoError(t, fb.UnknownText()(c))
	require.NoError(t, fb.UnknownDocument()(c))
	require.NoError(t, fb.UnknownCallback()(c))

	assert.Equal(t, []any{"Use /start"}, c.sent)
	require.Len(t, c.responses, 1)
	assert.Equal(t, "Expired", c.responses[0].Text)
}
