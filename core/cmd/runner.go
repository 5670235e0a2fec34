// Package cmd is the shared main of the bots: load config, bootstrap, then
// keep the update loop alive until a termination signal.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
	coretelegram "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"
)

// ConfigCarrier is a bot config that embeds the core config.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp produces the run options of one bot.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

type Options struct {
	// ConfigEnvVar names the variable holding the config path; CONFIG_PATH
	// when empty.
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(ctx context.Context, cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error

	// Context replaces the signal-bound root context.
	Context context.Context
	// Sleep replaces the supervisor's restart wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run blocks until SIGINT or SIGTERM, or until the supervisor gives up.
// An empty config path means environment-only configuration.
func Run(opts Options) error {
	if opts.LoadConfig == nil || opts.Bootstrap == nil {
		return errors.New("cmd: LoadConfig and Bootstrap are required")
	}

	path := configPath(opts)
	if path != "" {
		log.Printf("loading config: %s", path)
	}
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}
	core := cfg.CoreConfig()
	if core == nil {
		return errors.New("cmd: loaded config is missing core configuration")
	}

	ctx := opts.Context
	if ctx == nil {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
	}
	defer flushLogs(opts.ShutdownLogger)

	bootedAt := time.Now()
	app, err := opts.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}

	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	attempt := 0
	return coretelegram.Supervise(ctx, func(ctx context.Context) error {
		attempt++
		ro, err := app.TelegramRunOptions()
		if err != nil {
			return fmt.Errorf("cmd: telegram options build failed: %w", err)
		}
		hooks := lifecycle{attempt: attempt, bootedAt: bootedAt}
		ro.OnStart, ro.OnStop = hooks.start(ro.OnStart), hooks.stop(ro.OnStop)
		return run(ctx, ro)
	}, coretelegram.SuperviseOptions{
		Delay:       time.Duration(core.Supervisor.RestartDelayMS) * time.Millisecond,
		MaxRestarts: core.Supervisor.MaxRestarts,
		Sleep:       opts.Sleep,
	})
}

func configPath(opts Options) string {
	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	if p := os.Getenv(env); p != "" {
		return p
	}
	return opts.DefaultConfigPath
}

func flushLogs(shutdown func() error) {
	if shutdown == nil {
		shutdown = logger.Shutdown
	}
	if err := shutdown(); err != nil {
		log.Printf("logger shutdown error: %v", err)
	}
}

type hook = func(ctx context.Context, rt coretelegram.Runtime) error

// lifecycle logs ready and shutdown around the bot's own hooks.
type lifecycle struct {
	attempt  int
	bootedAt time.Time
}

func (l lifecycle) start(next hook) hook {
	return func(ctx context.Context, rt coretelegram.Runtime) error {
		if next != nil {
			if err := next(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, logger.CompApp, "ready",
			slog.Int("attempt", l.attempt),
			slog.Duration("startup_duration", logger.Took(l.bootedAt)),
		)
		return nil
	}
}

func (l lifecycle) stop(next hook) hook {
	return func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Info(ctx, logger.CompApp, "shutdown", slog.Int("attempt", l.attempt))
		if next == nil {
			return nil
		}
		return next(ctx, rt)
	}
}
