// Package bootstrap runs the startup steps shared by the bots: logger
// initialisation, then the reference-data seeders.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
)

// Seeder loads reference data once at process start.
type Seeder interface {
	Seed(ctx context.Context) error
}

// SeederFunc adapts a function to Seeder.
type SeederFunc func(ctx context.Context) error

func (f SeederFunc) Seed(ctx context.Context) error { return f(ctx) }

// NamedSeeder pairs a seeder with its log name.
type NamedSeeder struct {
	Name   string
	Seeder Seeder
}

// Modules groups optional startup hooks.
type Modules struct {
	// Seeders run concurrently and must not share mutable state.
	Seeders []NamedSeeder
}

type Options struct {
	Config     *coreconfig.Config
	LoggerInit func(*coreconfig.Config) error
	Modules    Modules
}

// Result reports what Run did.
type Result struct {
	// Degraded names the seeders that failed, in declaration order. The bot
	// still starts without their data.
	Degraded []string
}

// Run initialises the logger and then the seeders. Only a logger failure
// aborts startup.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config provided")
	}
	initLogger := opts.LoggerInit
	if initLogger == nil {
		initLogger = logger.InitLogger
	}
	if err := initLogger(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	seeders := opts.Modules.Seeders
	failed := make([]bool, len(seeders))
	var g errgroup.Group
	for i, s := range seeders {
		if s.Seeder == nil {
			continue
		}
		g.Go(func() error {
			failed[i] = runSeeder(ctx, s) != nil
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	for i, bad := range failed {
		if bad {
			res.Degraded = append(res.Degraded, seeders[i].Name)
		}
	}
	return res, nil
}

func runSeeder(ctx context.Context, s NamedSeeder) error {
	start := time.Now()
	err := s.Seeder.Seed(ctx)
	attrs := []slog.Attr{
		slog.String("source", s.Name),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		logger.Warn(ctx, logger.CompApp, "seed.degraded", append(attrs,
			slog.String("status", logger.StatusFail),
			slog.String("err", err.Error()),
		)...)
		return err
	}
	logger.Debug(ctx, logger.CompApp, "seed.done", append(attrs, slog.String("status", logger.StatusOK))...)
	return nil
}
