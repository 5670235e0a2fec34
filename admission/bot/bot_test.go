package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/flow"
	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeAPI struct {
	tele.API
	mu      sync.Mutex
	sent    []string
	markups []*tele.ReplyMarkup
	actions []tele.ChatAction
}

func (f *fakeAPI) Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, what.(string))
	var markup *tele.ReplyMarkup
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			markup = so.ReplyMarkup
		}
	}
	f.markups = append(f.markups, markup)
	return &tele.Message{ID: len(f.sent)}, nil
}

func (f *fakeAPI) Notify(to tele.Recipient, action tele.ChatAction, threadID ...int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

type fakeContext struct {
	tele.Context
	api  *fakeAPI
	chat *tele.Chat
	text string
	vals map[string]any
}

func newFakeContext(api *fakeAPI, chatID int64, text string) *fakeContext {
	return &fakeContext{api: api, chat: &tele.Chat{ID: chatID}, text: text, vals: map[string]any{}}
}

func (f *fakeContext) Bot() tele.API                           { return f.api }
func (f *fakeContext) Chat() *tele.Chat                        { return f.chat }
func (f *fakeContext) Sender() *tele.User                      { return &tele.User{ID: f.chat.ID} }
func (f *fakeContext) Text() string                            { return f.text }
func (f *fakeContext) Update() tele.Update                     { return tele.Update{ID: 1} }
func (f *fakeContext) Get(key string) any                      { return f.vals[key] }
func (f *fakeContext) Set(key string, v any)                   { f.vals[key] = v }
func (f *fakeContext) Message() *tele.Message                  { return &tele.Message{Text: f.text, Chat: f.chat} }
func (f *fakeContext) Callback() *tele.Callback                { return nil }
func (f *fakeContext) Respond(...*tele.CallbackResponse) error { return nil }

type stubGenerator struct{ answer string }

func (g stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.answer, nil
}

func noLogger(*coreconfig.Config) error { return nil }

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	doc := filepath.Join(dir, "admission.txt")
	tuition := filepath.Join(dir, "tuition.json")
	require.NoError(t, os.WriteFile(doc, []byte("Admission opens in January."), 0o600))
	require.NoError(t, os.WriteFile(tuition, []byte(`{"CSE": "1,000,000 BDT" // per program
}`), 0o600))

	cfg := &Config{
		Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "t"}},
		Gemini: GeminiConfig{APIKey: "k"},
		Knowledge: KnowledgeConfig{
			DocumentPath: doc,
			TuitionPath:  tuition,
		},
	}
	require.NoError(t, coreconfig.Normalize(&cfg.Config))
	require.NoError(t, cfg.normalize())
	return cfg
}

func TestLoadConfigRequiresGeminiKey(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "tg")
	t.Setenv("GEMINI_API_KEY", "")
	_, err := LoadConfig("")
	require.ErrorIs(t, err, coreconfig.ErrMissingToken)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "tg")
	t.Setenv("GEMINI_API_KEY", "gem")
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "gem", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-pro-latest", cfg.Gemini.Model)
	assert.Equal(t, 60, cfg.Gemini.TimeoutSeconds)
	assert.Equal(t, DefaultDocumentPath, cfg.Knowledge.DocumentPath)
	assert.Equal(t, DefaultTuitionPath, cfg.Knowledge.TuitionPath)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("telegram:\n  token: file-token\ngemini:\n  api_key: file-key\n  model: gemini-2.0-flash\nknowledge:\n  tuition_path: fees.json\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("TELEGRAM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "fees.json", cfg.Knowledge.TuitionPath)
}

func TestLoadConfigRejectsTemperature(t *testing.T) {
	cfg := &Config{Gemini: GeminiConfig{APIKey: "k"}}
	bad := float32(3)
	cfg.Gemini.Temperature = &bad
	require.Error(t, cfg.normalize())
}

func TestMarkupFor(t *testing.T) {
	assert.Nil(t, markupFor(flow.KeyboardNone))
	assert.True(t, markupFor(flow.KeyboardRemove).RemoveKeyboard)

	confirm := markupFor(flow.KeyboardConfirm)
	assert.True(t, confirm.OneTimeKeyboard)
	require.Len(t, confirm.ReplyKeyboard, 1)

	main := markupFor(flow.KeyboardMain)
	assert.False(t, main.OneTimeKeyboard)
	require.NotEmpty(t, main.ReplyKeyboard)
}

func TestAppConversation(t *testing.T) {
	cfg := testConfig(t)
	app, err := Bootstrap(context.Background(), cfg, Deps{
		Generator:  stubGenerator{answer: "  Admission opens in January.  "},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)

	api := &fakeAPI{}
	require.NoError(t, app.handle(newFakeContext(api, 7, "/start")))
	assert.Equal(t, []string{flow.WelcomeText}, api.sent)
	assert.Equal(t, flow.AwaitingQuestion, app.engine.State(7))

	require.NoError(t, app.handle(newFakeContext(api, 7, "When does admission open?")))
	assert.Contains(t, api.sent, "Admission opens in January.")
	assert.Equal(t, flow.AwaitingConfirmation, app.engine.State(7))
	assert.True(t, app.InProgress(7))
	assert.NotEmpty(t, api.actions)

	require.NoError(t, app.ManagerHandler(newFakeContext(api, 7, flow.ButtonNo)))
	assert.False(t, app.InProgress(7))
	assert.True(t, api.markups[len(api.markups)-1].RemoveKeyboard)
}

func TestAppTuitionUsesLoadedTable(t *testing.T) {
	cfg := testConfig(t)
	app, err := Bootstrap(context.Background(), cfg, Deps{
		Generator:  stubGenerator{answer: "unused"},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)

	api := &fakeAPI{}
	require.NoError(t, app.handle(newFakeContext(api, 9, flow.ButtonTuition)))
	require.NotEmpty(t, api.sent)
	assert.Contains(t, api.sent[0], "1,000,000 BDT")
}

func TestBootstrapDegradesOnMissingFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Knowledge.DocumentPath = filepath.Join(t.TempDir(), "missing.pdf")
	_, err := Bootstrap(context.Background(), cfg, Deps{
		Generator:  stubGenerator{answer: "ok"},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)
}

func TestTelegramRunOptions(t *testing.T) {
	cfg := testConfig(t)
	app, err := Bootstrap(context.Background(), cfg, Deps{
		Generator:  stubGenerator{answer: "ok"},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)

	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)
	assert.Same(t, &cfg.Config, opts.Config)
	assert.NotEmpty(t, opts.Middlewares)

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []any{"/start", "/help", tele.OnText, tele.OnDocument, tele.OnCallback} {
		assert.True(t, endpoints[ep], "missing route %v", ep)
	}
}
