// Package logger is the structured slog setup shared by both bots: ordered
// kv or JSON lines, correlation fields taken from the context, an optional
// log file and a separate errors file.
package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/buildinfo"
	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
)

// Component names.
const (
	CompApp       = "app"
	CompTG        = "tg"
	CompTGWire    = "tg.wire"
	CompSender    = "tg.sender"
	CompKnowledge = "knowledge"
	CompAnswer    = "answer"
	CompFlow      = "flow"
	CompNotes     = "notes"
)

const (
	defaultSampleKeep = 1
	defaultSamplePer  = 50
)

var (
	initOnce sync.Once

	shutdownMu sync.Mutex
	writers    []*asyncWriter
	closers    []io.Closer

	levelVar slog.LevelVar
	sampler  = newEventSampler(defaultSampleKeep, defaultSamplePer)
	traceAll bool

	// L is the root logger. It stays nil until InitLogger runs; every
	// helper in this package is a no-op until then.
	L *slog.Logger
)

// InitLogger configures the global logger. Only the first call has effect.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		var lc coreconfig.LoggingConfig
		if cfg != nil {
			lc = cfg.Logging
		}
		levelVar.Set(parseLevel(lc.Level))
		if keep, per, ok := parseRatio(lc.DebugSample); ok {
			sampler.Set(keep, per)
		} else if strings.TrimSpace(lc.DebugSample) != "" {
			log.Printf("logger: invalid debug_sample %q, using 1/%d", lc.DebugSample, defaultSamplePer)
		}
		traceAll = truthy(os.Getenv("TRACE")) || truthy(os.Getenv("LOG_TRACE"))

		outs, errOuts := openSinks(lc)
		out := newAsyncWriter(outs, 64*1024)
		writers = append(writers, out)
		var errOut *asyncWriter
		if len(errOuts) > 0 {
			errOut = newAsyncWriter(errOuts, 16*1024)
			writers = append(writers, errOut)
		}

		L = slog.New(newHandler(handlerOptions{
			level:    &levelVar,
			out:      out,
			errOut:   errOut,
			format:   parseFormat(lc),
			keyOrder: parseKeyOrder(lc.KeysOrder),
		}))
		slog.SetDefault(L)

		attrs := []slog.Attr{
			slog.String("go_version", runtime.Version()),
			slog.String("build_version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
			slog.String("cfg_profile", profile(lc)),
		}
		if cfg != nil {
			attrs = append(attrs, slog.String("mode", cfg.Telegram.RunMode))
		}
		Info(context.Background(), CompApp, "startup", attrs...)
	})
	return nil
}

// Shutdown flushes pending lines and closes the log files.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()

	var errs []error
	for _, w := range writers {
		errs = append(errs, w.Close())
	}
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	writers, closers = nil, nil
	return errors.Join(errs...)
}

// Background returns context.Background().
func Background() context.Context {
	return context.Background()
}

// Component returns L scoped to name, or nil before InitLogger.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// LogEvent logs event through logg, falling back to the context logger.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Event logs event for component at level.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := FromContext(ctx)
	if logg == nil {
		return
	}
	if component = strings.TrimSpace(component); component != "" {
		logg = logg.With("component", component)
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

// Debug logs at debug level.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs at info level.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs at warn level.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs at error level.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether this occurrence of a high-volume debug
// event should be logged. TRACE=1 lets every occurrence through.
func ShouldSampleDebug(event string) bool {
	return traceAll || sampler.Allow(event)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// parseFormat picks kv for debug/dev profiles unless a format is set.
func parseFormat(lc coreconfig.LoggingConfig) logFormat {
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		return formatKV
	case "json":
		return formatJSON
	}
	switch profile(lc) {
	case "debug", "dev":
		return formatKV
	}
	return formatJSON
}

func parseKeyOrder(raw string) []string {
	var order []string
	if raw = strings.TrimSpace(raw); raw != "" && raw != "default" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				order = append(order, k)
			}
		}
	}
	if len(order) == 0 {
		return append([]string(nil), defaultKeyOrder...)
	}
	return order
}

func profile(lc coreconfig.LoggingConfig) string {
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		return p
	}
	return "prod"
}

// openSinks returns stdout plus the optional bot file, and the optional
// errors file. Files that cannot be opened are reported and skipped.
func openSinks(lc coreconfig.LoggingConfig) (outs, errOuts []io.Writer) {
	outs = []io.Writer{os.Stdout}
	dir := strings.TrimSpace(lc.Dir)
	if dir == "" {
		return outs, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("logger: create log dir %s: %v", dir, err)
		return outs, nil
	}
	open := func(name string) io.Writer {
		if name = strings.TrimSpace(name); name == "" {
			return nil
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("logger: open log file %s: %v", path, err)
			return nil
		}
		closers = append(closers, f)
		return f
	}
	if f := open(lc.BotFile); f != nil {
		outs = append(outs, f)
	}
	if f := open(lc.ErrorsFile); f != nil {
		errOuts = append(errOuts, f)
	}
	return outs, errOuts
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
