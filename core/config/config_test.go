package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRequiresToken(t *testing.T) {
	err := Normalize(&Config{})
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: " 123:abc ", RunMode: "Polling"}}
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, DefaultRestartDelayMS, cfg.Supervisor.RestartDelayMS)
}

func TestNormalizeWebhookRequiresListener(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook},
		Webhook:  WebhookConfig{URL: "https://example.org/hook"},
	}
	require.Error(t, Normalize(cfg))

	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	require.NoError(t, Normalize(cfg))
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}}
	require.Error(t, Normalize(cfg))
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("telegram:\n  token: from-file\n  run_mode: longpoll\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("TELEGRAM_API_KEY", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEmptyEnvKeepsFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram:\n  token: from-file\n"), 0o600))

	t.Setenv("TELEGRAM_API_KEY", "")
	t.Setenv("LOG_LEVEL", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Telegram.Token)

	v, ok := os.LookupEnv("TELEGRAM_API_KEY")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("TELEGRAM_API_KEY", "env-token")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestNormalizeWebhookListsMissingFields(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}}
	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.url, webhook.listen, webhook.port")
}

func TestPollTimeoutSeconds(t *testing.T) {
	var nilCfg *Config
	assert.Equal(t, DefaultLongPollSeconds, nilCfg.PollTimeoutSeconds())
	cfg := &Config{Telegram: TelegramConfig{LongPollTimeoutSeconds: 25}}
	assert.Equal(t, 25, cfg.PollTimeoutSeconds())
}
