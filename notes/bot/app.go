package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/bootstrap"
	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tg "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/commands"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/router"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/state"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/ui"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/notes/menu"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/notes/tracker"

	tele "gopkg.in/telebot.v4"
)

var fallbacks = ui.StaticFallbacks{
	Text:     "Type /start to open the menu.",
	Document: "Type /start to open the menu.",
	Callback: "This button is no longer available",
}

// App is the wired notes menu bot.
type App struct {
	cfg      *Config
	table    *menu.Table
	tracker  *tracker.Tracker
	locks    *state.KeyedMutex
	registry *tg.Registry
}

// Deps lets callers (tests) replace collaborators.
type Deps struct {
	Table      *menu.Table
	LoggerInit func(*coreconfig.Config) error
}

// Bootstrap initialises logging and registers the menu handlers.
func Bootstrap(ctx context.Context, cfg *Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("notes: nil config")
	}
	if _, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     &cfg.Config,
		LoggerInit: deps.LoggerInit,
	}); err != nil {
		return nil, err
	}

	table := deps.Table
	if table == nil {
		table = menu.Default()
	}
	app := &App{
		cfg:      cfg,
		table:    table,
		tracker:  tracker.New(cfg.Notes.TeardownConcurrency),
		locks:    state.NewKeyedMutex(),
		registry: tg.NewRegistry(),
	}
	if err := app.register(); err != nil {
		return nil, err
	}
	logger.Info(ctx, logger.CompNotes, "notes.ready", slog.Int("links", len(table.Links())))
	return app, nil
}

// chatAction runs fn for the update's chat, one update per chat at a time.
type chatAction func(ctx context.Context, nav *Navigator, c tele.Context, chatID int64) error

func (a *App) wrap(fn chatAction) tele.HandlerFunc {
	return func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}
		unlock := a.locks.Lock(chat.ID)
		defer unlock()

		ctx := tghelpers.BuildContext(c)
		nav := NewNavigator(a.table, a.tracker, teleMessenger{api: c.Bot()})
		return fn(ctx, nav, c, chat.ID)
	}
}

func (a *App) register() error {
	start := a.wrap(func(ctx context.Context, nav *Navigator, _ tele.Context, chatID int64) error {
		return nav.Start(ctx, chatID)
	})
	content := a.wrap(func(ctx context.Context, nav *Navigator, _ tele.Context, chatID int64) error {
		return nav.Content(ctx, chatID)
	})

	cmds := map[string]commands.Command{
		"/start":   {Handler: start, Description: "Open the main menu"},
		"/content": {Handler: content, Description: "Browse study notes"},
		"/contact": {
			Handler: a.wrap(func(ctx context.Context, nav *Navigator, c tele.Context, chatID int64) error {
				replyTo := 0
				if m := c.Message(); m != nil {
					replyTo = m.ID
				}
				return nav.Contact(ctx, chatID, replyTo)
			}),
			Description: "Contact information",
		},
	}
	for name, cmd := range cmds {
		if err := a.registry.RegisterCommand(name, cmd); err != nil {
			return fmt.Errorf("notes: %w", err)
		}
	}

	cbs := map[string]tele.HandlerFunc{
		menu.KeyStart:   start,
		menu.KeyContent: content,
		menu.KeyContact: a.wrap(func(ctx context.Context, nav *Navigator, _ tele.Context, chatID int64) error {
			if err := nav.Contact(ctx, chatID, 0); err != nil {
				return err
			}
			return nav.Start(ctx, chatID)
		}),
		menu.KeyContinueYes: a.wrap(func(ctx context.Context, nav *Navigator, _ tele.Context, chatID int64) error {
			return nav.Continue(ctx, chatID)
		}),
		menu.KeyContinueNo: a.wrap(func(ctx context.Context, nav *Navigator, _ tele.Context, chatID int64) error {
			return nav.Stop(ctx, chatID)
		}),
	}
	for _, l := range a.table.Links() {
		key := l.Key
		cbs[key] = a.wrap(func(ctx context.Context, nav *Navigator, _ tele.Context, chatID int64) error {
			return nav.Note(ctx, chatID, key)
		})
	}
	for key, h := range cbs {
		if err := a.registry.RegisterCallback(key, h); err != nil {
			return fmt.Errorf("notes: %w", err)
		}
	}
	a.registry.SetCallbackNotFound(fallbacks.UnknownCallback())
	return nil
}

// TelegramRunOptions returns the routes and middlewares of the bot.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.TextRoutes(nil, a.registry, router.TextOptions{
		UnknownText:     fallbacks.UnknownText(),
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
