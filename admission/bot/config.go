// Package bot wires the admission assistant onto the shared Telegram runtime.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/answer"
	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
)

// GeminiConfig configures the generation backend.
type GeminiConfig struct {
	APIKey         string   `yaml:"api_key" envconfig:"GEMINI_API_KEY"`
	Model          string   `yaml:"model" envconfig:"GEMINI_MODEL"`
	TimeoutSeconds int      `yaml:"timeout_seconds" envconfig:"GEMINI_TIMEOUT_SECONDS"`
	Temperature    *float32 `yaml:"temperature" envconfig:"GEMINI_TEMPERATURE"`
	BaseURL        string   `yaml:"base_url" envconfig:"GEMINI_BASE_URL"`
}

// KnowledgeConfig points at the reference files.
type KnowledgeConfig struct {
	DocumentPath string `yaml:"document_path" envconfig:"KNOWLEDGE_DOCUMENT_PATH"`
	TuitionPath  string `yaml:"tuition_path" envconfig:"KNOWLEDGE_TUITION_PATH"`
}

// AssistantConfig customises the prompt identity.
type AssistantConfig struct {
	Institution     string   `yaml:"institution" envconfig:"ASSISTANT_INSTITUTION"`
	ContactMessage  string   `yaml:"contact_message" envconfig:"ASSISTANT_CONTACT_MESSAGE"`
	TuitionKeywords []string `yaml:"tuition_keywords" envconfig:"ASSISTANT_TUITION_KEYWORDS"`
}

// Defaults for the knowledge files, relative to the working directory.
const (
	DefaultDocumentPath = "diu_admission.pdf"
	DefaultTuitionPath  = "tuition_info_diu.json"
)

// Config is the admission bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Gemini    GeminiConfig    `yaml:"gemini"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Assistant AssistantConfig `yaml:"assistant"`
}

// CoreConfig exposes the shared runtime configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// GenerationTimeout returns the per-call model timeout.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSeconds) * time.Second
}

// LoadConfig reads path (optional) and the environment. Both the Telegram
// token and the Gemini key are required.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key (GEMINI_API_KEY): %w", coreconfig.ErrMissingToken)
	}
	if strings.TrimSpace(c.Gemini.Model) == "" {
		c.Gemini.Model = answer.DefaultModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = int(answer.DefaultTimeout / time.Second)
	}
	if t := c.Gemini.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("gemini.temperature must be within [0, 2], got %v", *t)
	}
	if strings.TrimSpace(c.Knowledge.DocumentPath) == "" {
		c.Knowledge.DocumentPath = DefaultDocumentPath
	}
	if strings.TrimSpace(c.Knowledge.TuitionPath) == "" {
		c.Knowledge.TuitionPath = DefaultTuitionPath
	}
	return nil
}
