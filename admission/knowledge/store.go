// Package knowledge loads the admission reference material once at startup:
// a free-text document (PDF or plain text) and the tuition fee table.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/tidwall/jsonc"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/bootstrap"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
)

// Source names used in logs and LoadError.
const (
	SourceDocument = "document"
	SourceTuition  = "tuition"
)

// Sources points at the files backing the store.
type Sources struct {
	DocumentPath string
	TuitionPath  string
}

// LoadError reports a source that could not be read or parsed. It is never
// fatal: the store keeps an empty value for that source.
type LoadError struct {
	Source string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("knowledge: load %s from %q: %v", e.Source, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Store holds the loaded context. After loading it is only read.
type Store struct {
	document    string
	tuition     map[string]any
	tuitionText string
}

// NewStore returns a store with both sources degraded to empty values.
func NewStore() *Store {
	return &Store{tuition: map[string]any{}, tuitionText: "{}"}
}

// Load reads both sources. The returned store is always usable; the error,
// if any, joins one *LoadError per failed source.
func Load(ctx context.Context, src Sources) (*Store, error) {
	s := NewStore()
	var errs []error
	for _, seeder := range Seeders(s, src) {
		if err := seeder.Seeder.Seed(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errors.Join(errs...)
}

// Seeders exposes the two loaders as bootstrap seeders filling s.
func Seeders(s *Store, src Sources) []bootstrap.NamedSeeder {
	return []bootstrap.NamedSeeder{
		{Name: SourceDocument, Seeder: bootstrap.SeederFunc(func(ctx context.Context) error {
			return s.loadDocument(ctx, src.DocumentPath)
		})},
		{Name: SourceTuition, Seeder: bootstrap.SeederFunc(func(ctx context.Context) error {
			return s.loadTuition(ctx, src.TuitionPath)
		})},
	}
}

// Document returns the free-text admission document, or "" if it failed to load.
func (s *Store) Document() string { return s.document }

// Tuition returns the fee table, or an empty map if it failed to load.
func (s *Store) Tuition() map[string]any { return s.tuition }

// TuitionText returns the fee table as 2-space indented JSON in file order.
func (s *Store) TuitionText() string { return s.tuitionText }

func (s *Store) loadDocument(ctx context.Context, path string) error {
	start := time.Now()
	text, err := readDocument(ctx, path)
	if err != nil {
		return s.fail(ctx, SourceDocument, path, err)
	}
	s.document = text
	logger.Info(ctx, logger.CompKnowledge, "load.done",
		slog.String("status", "ok"),
		slog.String("source", SourceDocument),
		slog.String("path", path),
		slog.Int("chars", len(text)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

func (s *Store) loadTuition(ctx context.Context, path string) error {
	start := time.Now()
	table, text, err := readTuition(ctx, path)
	if err != nil {
		return s.fail(ctx, SourceTuition, path, err)
	}
	s.tuition = table
	s.tuitionText = text
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	logger.Info(ctx, logger.CompKnowledge, "load.done",
		slog.String("status", "ok"),
		slog.String("source", SourceTuition),
		slog.String("path", path),
		slog.Int("categories", len(table)),
		slog.String("preview", logger.Preview(keys, 5)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

func (s *Store) fail(ctx context.Context, source, path string, err error) error {
	loadErr := &LoadError{Source: source, Path: path, Err: err}
	logger.Error(ctx, logger.CompKnowledge, "load.fail",
		slog.String("status", "fail"),
		slog.String("source", source),
		slog.String("path", path),
		slog.String("err", err.Error()),
	)
	return loadErr
}

func readDocument(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.New("no path configured")
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readPDF extracts plain text from every page. The PDF parser panics on some
// malformed inputs, so panics are turned into errors.
func readPDF(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func readTuition(ctx context.Context, path string) (map[string]any, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(path) == "" {
		return nil, "", errors.New("no path configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	clean := jsonc.ToJSON(raw)

	var table map[string]any
	if err := json.Unmarshal(clean, &table); err != nil {
		return nil, "", fmt.Errorf("parse tuition table: %w", err)
	}
	if table == nil {
		table = map[string]any{}
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(clean), "", "  "); err != nil {
		return nil, "", fmt.Errorf("format tuition table: %w", err)
	}
	return table, indented.String(), nil
}
