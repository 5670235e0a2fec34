// Package config holds the settings shared by every bot in this module.
// Values come from an optional YAML file, then from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrMissingToken reports that a required secret was not supplied.
var ErrMissingToken = errors.New("required token is missing")

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"

	DefaultLongPollSeconds = 10
	DefaultRestartDelayMS  = 5000
)

type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"TELEGRAM_API_KEY"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds is the getUpdates timeout; 0 picks the default.
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
	// SecretToken is echoed by Telegram in X-Telegram-Bot-Api-Secret-Token.
	SecretToken string `yaml:"secret_token" envconfig:"WEBHOOK_SECRET_TOKEN"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample" envconfig:"LOG_DEBUG_SAMPLE"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	BotFile     string `yaml:"bot_file"`
	ErrorsFile  string `yaml:"errors_file"`
	// Profile is "debug", "dev" or "prod"; the first two default to kv output.
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// SupervisorConfig controls restarts of the update loop after a fault.
type SupervisorConfig struct {
	RestartDelayMS int `yaml:"restart_delay_ms" envconfig:"SUPERVISOR_RESTART_DELAY_MS"`
	// MaxRestarts caps restarts; 0 keeps restarting forever.
	MaxRestarts int `yaml:"max_restarts" envconfig:"SUPERVISOR_MAX_RESTARTS"`
}

// SenderConfig tunes the outbound dispatcher.
type SenderConfig struct {
	Workers    int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	QueueSize  int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	MaxRetries int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
}

// Config is the core part of every bot configuration.
type Config struct {
	Telegram   TelegramConfig   `yaml:"telegram"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Logging    LoggingConfig    `yaml:"logging"`
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Sender     SenderConfig     `yaml:"sender"`
}

// Load decodes and normalizes a core-only configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decode fills target from the YAML file at path, if any, and then from the
// environment. Bot configs embed Config inline so one file carries both.
func Decode(path string, target any) error {
	if err := DecodeFile(path, target); err != nil {
		return err
	}
	return DecodeEnv(target)
}

// DecodeFile fills target from the YAML file at path. An empty path is a
// no-op.
func DecodeFile(path string, target any) error {
	if path = strings.TrimSpace(path); path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// DecodeEnv overrides target with the environment. Variables set to an
// empty string count as unset, so a blank KEY= line in .env keeps the file
// value.
func DecodeEnv(target any) error {
	restore := hideEmptyEnv()
	defer restore()
	if err := envconfig.Process("", target); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

func hideEmptyEnv() (restore func()) {
	var empty []string
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" && v == "" {
			empty = append(empty, k)
		}
	}
	for _, k := range empty {
		_ = os.Unsetenv(k)
	}
	return func() {
		for _, k := range empty {
			_ = os.Setenv(k, "")
		}
	}
}

// Normalize validates cfg and fills defaults in place.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	for _, step := range []func(*Config) error{
		normalizeTelegram,
		normalizeWebhook,
		normalizeRuntime,
	} {
		if err := step(cfg); err != nil {
			return err
		}
	}
	return nil
}

// PollTimeoutSeconds is the effective long-poll timeout.
func (c *Config) PollTimeoutSeconds() int {
	if c == nil || c.Telegram.LongPollTimeoutSeconds <= 0 {
		return DefaultLongPollSeconds
	}
	return c.Telegram.LongPollTimeoutSeconds
}

func normalizeTelegram(cfg *Config) error {
	t := &cfg.Telegram
	if t.Token = strings.TrimSpace(t.Token); t.Token == "" {
		return fmt.Errorf("telegram token (TELEGRAM_API_KEY): %w", ErrMissingToken)
	}
	switch mode := strings.ToLower(strings.TrimSpace(t.RunMode)); mode {
	case "", "polling", RunModeLongpoll:
		t.RunMode = RunModeLongpoll
	case RunModeWebhook:
		t.RunMode = RunModeWebhook
	default:
		return fmt.Errorf("config: telegram.run_mode %q is not one of webhook, longpoll", t.RunMode)
	}
	if t.LongPollTimeoutSeconds < 0 {
		return errors.New("config: telegram.longpoll_timeout_seconds must be >= 0")
	}
	return nil
}

func normalizeWebhook(cfg *Config) error {
	if cfg.Telegram.RunMode != RunModeWebhook {
		return nil
	}
	w := &cfg.Webhook
	w.URL = strings.TrimSpace(w.URL)
	w.Listen = strings.TrimSpace(w.Listen)
	var missing []string
	if w.URL == "" {
		missing = append(missing, "webhook.url")
	}
	if w.Listen == "" {
		missing = append(missing, "webhook.listen")
	}
	if w.Port <= 0 {
		missing = append(missing, "webhook.port")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: webhook mode requires %s", strings.Join(missing, ", "))
	}
	return nil
}

func normalizeRuntime(cfg *Config) error {
	if cfg.Supervisor.RestartDelayMS <= 0 {
		cfg.Supervisor.RestartDelayMS = DefaultRestartDelayMS
	}
	if cfg.Supervisor.MaxRestarts < 0 {
		return errors.New("config: supervisor.max_restarts must be >= 0")
	}
	if cfg.Sender.MaxRetries < 0 {
		return errors.New("config: sender.max_retries must be >= 0")
	}
	return nil
}
