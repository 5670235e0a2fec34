package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	coretelegram "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram"
)

type testConfig struct{ core coreconfig.Config }

func (c *testConfig) CoreConfig() *coreconfig.Config { return &c.core }

type testApp struct{ builds int }

func (a *testApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	a.builds++
	return coretelegram.RunOptions{}, nil
}

func TestRunRestartsFailedLoop(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	app := &testApp{}
	var (
		gotPath string
		waits   []time.Duration
		runs    int
	)
	err := Run(Options{
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			cfg := &testConfig{}
			cfg.core.Supervisor.RestartDelayMS = 5000
			return cfg, nil
		},
		Bootstrap: func(ctx context.Context, cfg ConfigCarrier) (TelegramApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			runs++
			require.NotNil(t, opts.OnStart)
			require.NotNil(t, opts.OnStop)
			if runs < 3 {
				return errors.New("telegram: update loop exited")
			}
			return nil
		},
		Context: context.Background(),
		Sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	})
	require.NoError(t, err)
	assert.Empty(t, gotPath)
	assert.Equal(t, 3, runs)
	assert.Equal(t, 3, app.builds)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, waits)
}

func TestRunPropagatesLoadError(t *testing.T) {
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return nil, coreconfig.ErrMissingToken
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	require.ErrorIs(t, err, coreconfig.ErrMissingToken)
}

func TestRunBootstrapError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return &testConfig{}, nil },
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return nil, boom
		},
		ShutdownLogger: func() error { return nil },
		Context:        context.Background(),
	})
	require.ErrorIs(t, err, boom)
}

func TestRunRequiresCallbacks(t *testing.T) {
	require.Error(t, Run(Options{}))
}
