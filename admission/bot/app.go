package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/answer"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/classify"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/flow"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/knowledge"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/session"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/bootstrap"
	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tg "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/commands"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/router"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

var fallbacks = ui.StaticFallbacks{
	Document: "📄 I can only read text questions. Please type your question.",
	Callback: "This button is no longer available",
}

// App is the wired admission assistant.
type App struct {
	cfg      *Config
	engine   *flow.Engine
	registry *tg.Registry
}

// Deps lets callers (tests) replace external collaborators.
type Deps struct {
	Generator  answer.Generator
	LoggerInit func(*coreconfig.Config) error
}

// Bootstrap loads the knowledge files, builds the generator and wires the
// conversation engine. Knowledge load failures only degrade the context.
func Bootstrap(ctx context.Context, cfg *Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("admission: nil config")
	}

	store := knowledge.NewStore()
	src := knowledge.Sources{DocumentPath: cfg.Knowledge.DocumentPath, TuitionPath: cfg.Knowledge.TuitionPath}
	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     &cfg.Config,
		LoggerInit: deps.LoggerInit,
		Modules:    bootstrap.Modules{Seeders: knowledge.Seeders(store, src)},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Degraded) > 0 {
		logger.Warn(ctx, logger.CompKnowledge, "context.degraded",
			slog.Any("sources", res.Degraded),
		)
	}

	gen := deps.Generator
	if gen == nil {
		gemini, err := answer.NewGemini(ctx, answer.GeminiOptions{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			Temperature: cfg.Gemini.Temperature,
			BaseURL:     cfg.Gemini.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("admission: %w", err)
		}
		gen = gemini
	}

	sessions := session.NewTable()
	synth, err := answer.New(answer.Options{
		Generator:  gen,
		Classifier: classify.New(cfg.Assistant.TuitionKeywords...),
		Context:    store,
		Profile: answer.Profile{
			Institution:    cfg.Assistant.Institution,
			ContactMessage: cfg.Assistant.ContactMessage,
		},
		Timeout: cfg.GenerationTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("admission: %w", err)
	}

	engine, err := flow.NewEngine(flow.Options{
		Sessions: sessions,
		Answerer: synth,
		Tuition:  store,
	})
	if err != nil {
		return nil, fmt.Errorf("admission: %w", err)
	}

	app := &App{cfg: cfg, engine: engine, registry: tg.NewRegistry()}
	if err := app.register(); err != nil {
		return nil, fmt.Errorf("admission: %w", err)
	}
	logger.Info(ctx, logger.CompApp, "admission.ready",
		slog.String("model", cfg.Gemini.Model),
		slog.Duration("timeout", cfg.GenerationTimeout().Round(time.Second)),
	)
	return app, nil
}

func (a *App) register() error {
	for name, desc := range map[string]string{
		"/start": "Start the admission assistant",
		"/help":  "Show the main menu",
	} {
		if err := a.registry.RegisterCommand(name, commands.Command{Handler: a.handle, Description: desc}); err != nil {
			return err
		}
	}
	a.registry.SetTextFallback(a.handle)
	a.registry.SetCallbackNotFound(fallbacks.UnknownCallback())
	return nil
}

// InProgress reports whether the chat is inside a dialog.
func (a *App) InProgress(chatID int64) bool {
	return a.engine.InProgress(chatID)
}

// ManagerHandler hands text of an active dialog to the engine.
func (a *App) ManagerHandler(c tele.Context) error {
	return a.handle(c)
}

func (a *App) handle(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	return a.engine.Handle(ctx, chat.ID, c.Text(), chatReplier{api: c.Bot(), chat: chat})
}

// TelegramRunOptions returns the routes and middlewares of the bot.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.TextRoutes(a, a.registry, router.TextOptions{
		UnknownDocument: fallbacks.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:            &a.cfg.Config,
		Registry:          a.registry,
		DispatcherOptions: tg.DispatcherOptionsFrom(&a.cfg.Config),
		Middlewares:       tg.DefaultMiddlewares(),
		Routes:            routes,
	}, nil
}
