package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	tghelpers "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/helpers"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/middleware"
	tgsender "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware is a named global middleware.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// Route binds a handler to any endpoint accepted by tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// DefaultMiddlewares is the chain every bot in this module uses. Recover
// runs outermost so a panic in logging is still caught.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}

// RunOptions describes one bot run.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	// Dispatcher overrides the one built from DispatcherOptions.
	Dispatcher *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup   bool
	DisableHelperDispatcher bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime is handed to the lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// DispatcherOptionsFrom copies the sender section of cfg.
func DispatcherOptionsFrom(cfg *coreconfig.Config) tgsender.Options {
	if cfg == nil {
		return tgsender.Options{}
	}
	s := cfg.Sender
	return tgsender.Options{Workers: s.Workers, QueueSize: s.QueueSize, MaxRetries: s.MaxRetries}
}

// RunTelegram serves updates until ctx is done. It returns an error when the
// bot cannot be built or the update loop stops on its own, so a supervisor
// can start it again.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		return errors.New("telegram: nil config provided")
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	bot, err := buildBot(ctx, cfg, opts.DisableWebhookCleanup)
	if err != nil {
		return err
	}

	rt := Runtime{Bot: bot, Dispatcher: opts.Dispatcher, Registry: reg}
	if rt.Dispatcher == nil {
		rt.Dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	if !opts.DisableHelperDispatcher {
		tghelpers.SetDispatcher(rt.Dispatcher)
	}
	defer func() {
		rt.Dispatcher.Close()
		logger.Info(ctx, logger.CompSender, "sender.closed",
			slog.Uint64("failed_calls", rt.Dispatcher.ErrorCount()),
		)
		if !opts.DisableHelperDispatcher {
			tghelpers.SetDispatcher(nil)
		}
	}()

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			bot.Handle(r.Endpoint, r.Handler)
		}
	}
	publishCommands(ctx, bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	loopErr := serve(ctx, bot)

	if opts.OnStop != nil {
		if err := opts.OnStop(context.WithoutCancel(ctx), rt); err != nil {
			return err
		}
	}
	return loopErr
}

// buildBot creates the bot for cfg and, in long-poll mode, drops any webhook
// left behind by an earlier webhook deployment.
func buildBot(ctx context.Context, cfg *coreconfig.Config, keepWebhook bool) (*tele.Bot, error) {
	start := time.Now()
	poller := newPoller(cfg)
	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.Telegram.Token,
		Poller:  poller,
		Client:  newHTTPClient(time.Duration(cfg.PollTimeoutSeconds()) * time.Second),
		OnError: logHandlerError,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}

	attrs := []slog.Attr{
		slog.String("mode", cfg.Telegram.RunMode),
		slog.Duration("duration", logger.Took(start)),
	}
	if wh, ok := poller.(*tele.Webhook); ok {
		attrs = append(attrs, slog.String("listen", wh.Listen), slog.String("public_url", wh.Endpoint.PublicURL))
	} else {
		attrs = append(attrs, slog.Int("timeout_seconds", cfg.PollTimeoutSeconds()))
	}
	logger.Info(ctx, logger.CompTG, "bot.ready", attrs...)

	if _, isWebhook := poller.(*tele.Webhook); !isWebhook && !keepWebhook {
		if err := bot.RemoveWebhook(false); err != nil {
			logger.Warn(ctx, logger.CompTG, "webhook.delete",
				slog.String("status", logger.StatusFail),
				slog.String("err", err.Error()),
			)
		}
	}
	return bot, nil
}

// serve runs the update loop until ctx ends. A loop that exits while ctx is
// still live is reported as an error.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		return nil
	case <-done:
		return errors.New("telegram: update loop exited")
	}
}

// logHandlerError receives errors returned by handlers and telebot internals.
func logHandlerError(err error, c tele.Context) {
	if err == nil {
		return
	}
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.Error(ctx, logger.CompTG, "handler.error",
		slog.String("status", logger.StatusFail),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}
