// Package bot wires the study-notes menu onto the shared Telegram runtime.
package bot

import (
	"fmt"
	"strings"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/notes/tracker"
)

// TokenEnv carries the menu bot's own Telegram token. TELEGRAM_API_KEY
// belongs to the admission bot and is ignored here.
const TokenEnv = "API_KEY"

// NotesConfig tunes the menu bot.
type NotesConfig struct {
	// Token overrides telegram.token from the file.
	Token string `yaml:"-" envconfig:"API_KEY"`
	// TeardownConcurrency bounds deletions in flight when the user leaves.
	// Calls routed through the sender dispatcher are serialized per chat
	// regardless.
	TeardownConcurrency int `yaml:"teardown_concurrency" envconfig:"NOTES_TEARDOWN_CONCURRENCY"`
}

// Config is the notes bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Notes NotesConfig `yaml:"notes"`
}

// CoreConfig exposes the shared runtime configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads path (optional) and the environment. The token comes from
// API_KEY, falling back to telegram.token in the file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	fileToken := cfg.Telegram.Token
	if err := coreconfig.DecodeEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.Telegram.Token = fileToken
	if cfg.Notes.Token != "" {
		cfg.Telegram.Token = cfg.Notes.Token
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return nil, fmt.Errorf("telegram token (%s): %w", TokenEnv, coreconfig.ErrMissingToken)
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if cfg.Notes.TeardownConcurrency < 0 {
		return nil, fmt.Errorf("notes.teardown_concurrency must be >= 0")
	}
	if cfg.Notes.TeardownConcurrency == 0 {
		cfg.Notes.TeardownConcurrency = tracker.DefaultConcurrency
	}
	return &cfg, nil
}
