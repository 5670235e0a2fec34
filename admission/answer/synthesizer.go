// Package answer turns an admission question into a model-generated answer
// grounded on the loaded reference material.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/classify"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// ErrEmptyAnswer is wrapped when the model returns no usable text.
var ErrEmptyAnswer = errors.New("answer: empty response")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports a failed, timed out or empty generation.
type GenerationError struct {
	Kind classify.Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer: generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ErrorCode classifies the error in handler summaries.
func (e *GenerationError) ErrorCode() string { return "GENERATION" }

// Options configure a Synthesizer.
type Options struct {
	Generator  Generator
	Classifier *classify.Classifier
	Context    ContextSource
	Profile    Profile
	// Timeout bounds each generation; 0 means DefaultTimeout.
	Timeout time.Duration
}

// Synthesizer answers questions from the loaded reference material.
type Synthesizer struct {
	gen        Generator
	classifier *classify.Classifier
	ctxSource  ContextSource
	profile    Profile
	timeout    time.Duration
}

// New validates opts and returns a Synthesizer.
func New(opts Options) (*Synthesizer, error) {
	if opts.Generator == nil {
		return nil, errors.New("answer: generator is required")
	}
	if opts.Classifier == nil {
		opts.Classifier = classify.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Synthesizer{
		gen:        opts.Generator,
		classifier: opts.Classifier,
		ctxSource:  opts.Context,
		profile:    opts.Profile.withDefaults(),
		timeout:    opts.Timeout,
	}, nil
}

// Answer generates the trimmed answer to question. It does not touch any
// session; the caller records the exchange once the answer is delivered.
func (s *Synthesizer) Answer(ctx context.Context, question string) (string, error) {
	kind := s.classifier.Classify(question)
	prompt := BuildPrompt(s.profile, kind, s.ctxSource, question)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.Generate(genCtx, prompt)
	if err == nil {
		// Some clients return late instead of honouring the deadline.
		err = genCtx.Err()
	}
	text := strings.TrimSpace(raw)
	if err == nil && text == "" {
		err = ErrEmptyAnswer
	}
	took := time.Since(start)

	if err != nil {
		logger.Error(ctx, logger.CompAnswer, "generate.fail",
			slog.String("status", "fail"),
			slog.String("query_kind", kind.String()),
			slog.Int("prompt_chars", len(prompt)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return "", &GenerationError{Kind: kind, Err: err}
	}

	logger.Info(ctx, logger.CompAnswer, "generate.done",
		slog.String("status", "ok"),
		slog.String("query_kind", kind.String()),
		slog.Int("prompt_chars", len(prompt)),
		slog.Int("answer_chars", len(text)),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return text, nil
}
