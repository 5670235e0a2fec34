package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type field struct {
	key string
	val any
}

// record keeps fields unique by key; the latest set wins.
type record struct {
	fields []field
	index  map[string]int
}

func newRecord(capacity int) *record {
	return &record{fields: make([]field, 0, capacity), index: make(map[string]int, capacity)}
}

func (r *record) set(key string, val any) {
	if i, ok := r.index[key]; ok {
		r.fields[i].val = val
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, field{key, val})
}

func (r *record) setDefault(key string, val any) {
	if _, ok := r.index[key]; !ok {
		r.set(key, val)
	}
}

func (r *record) str(key string) string {
	i, ok := r.index[key]
	if !ok {
		return ""
	}
	switch v := r.fields[i].val.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// sorted returns the non-empty fields: keys named in order first, the rest
// alphabetically.
func (r *record) sorted(order []string) []field {
	rank := make(map[string]int, len(order))
	for i, k := range order {
		rank[k] = i
	}
	out := make([]field, 0, len(r.fields))
	for _, f := range r.fields {
		if s, ok := f.val.(string); (ok && s == "") || f.val == nil {
			continue
		}
		out = append(out, f)
	}
	slices.SortStableFunc(out, func(a, b field) int {
		ra, oka := rank[a.key]
		rb, okb := rank[b.key]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(a.key, b.key)
	})
	return out
}

type handlerOptions struct {
	level slog.Leveler
	out   *asyncWriter
	// errOut additionally receives ERROR and above when set.
	errOut   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as ordered kv or JSON lines.
type structuredHandler struct {
	opts   handlerOptions
	preset []field
	groups []string
}

func newHandler(opts handlerOptions) *structuredHandler {
	if opts.level == nil {
		opts.level = slog.LevelInfo
	}
	if opts.keyOrder == nil {
		opts.keyOrder = slices.Clone(defaultKeyOrder)
	}
	return &structuredHandler{opts: opts}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.opts.out == nil {
		return fmt.Errorf("logger: writer not initialized")
	}
	isJSON := h.opts.format == formatJSON

	rec := newRecord(16 + len(h.preset))
	ts := r.Time.UTC()
	rec.set("ts", ts.Truncate(time.Millisecond).Format(timeFormatMillis))
	rec.set("level", normalizeLevel(r.Level.String()))
	if isJSON {
		rec.set("ts_unix_nano", ts.UnixNano())
	}
	for _, f := range h.preset {
		rec.set(f.key, f.val)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		addAttr(rec, prefix, a)
		return true
	})
	for _, f := range contextFields(ctx) {
		rec.setDefault(f.key, f.val)
	}

	if rid := rec.str("rid"); rid != "" {
		if compact := CompactRID(rid); compact != rid {
			if isJSON {
				rec.setDefault("rid_full", rid)
			}
			rec.set("rid", compact)
		}
	}
	if rec.str("event") == "" {
		event := r.Message
		if event == "" {
			event = "unknown"
		}
		rec.set("event", event)
	}
	if rec.str("component") == "" {
		rec.set("component", CompApp)
	}
	if s := rec.str("status"); s != "" {
		rec.set("status", normalizeStatus(s))
	}

	fields := rec.sorted(h.opts.keyOrder)
	var line []byte
	if isJSON {
		var err error
		if line, err = encodeJSON(fields); err != nil {
			return err
		}
	} else {
		line = encodeKV(fields)
	}
	line = append(line, '\n')

	if _, err := h.opts.out.Write(line); err != nil {
		return err
	}
	if h.opts.errOut != nil && r.Level >= slog.LevelError {
		_, err := h.opts.errOut.Write(line)
		return err
	}
	return nil
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rec := newRecord(len(h.preset) + len(attrs))
	for _, f := range h.preset {
		rec.set(f.key, f.val)
	}
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		addAttr(rec, prefix, a)
	}
	clone := *h
	clone.preset = rec.fields
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

// addAttr flattens groups into dotted keys and normalizes values.
func addAttr(rec *record, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			addAttr(rec, key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, val, ok := normalizeValue(key, v); ok {
		rec.set(k, val)
	}
}

func normalizeValue(key string, v slog.Value) (string, any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return key, v.Bool(), true
	case slog.KindInt64:
		return key, v.Int64(), true
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, v.Uint64(), true
	case slog.KindFloat64:
		return key, v.Float64(), true
	case slog.KindDuration:
		return durationKey(key), RoundMS(v.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case time.Duration:
		return durationKey(key), RoundMS(x).Milliseconds(), true
	case string:
		return key, strings.TrimSpace(x), true
	case fmt.Stringer:
		return key, x.String(), true
	case []string:
		return key, strings.Join(x, ","), true
	default:
		return key, fmt.Sprint(x), true
	}
}

// durationKey renames duration keys so the unit is explicit.
func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	}
	return key + "_ms"
}

func encodeJSON(fields []field) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	for i, f := range fields {
		data, err := json.Marshal(f.val)
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", f.key, err)
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, f.key)
		buf = append(buf, ':')
		buf = append(buf, data...)
	}
	return append(buf, '}'), nil
}

func encodeKV(fields []field) []byte {
	buf := make([]byte, 0, 256)
	for i, f := range fields {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, f.key...)
		buf = append(buf, '=')
		s := fmt.Sprint(f.val)
		if strings.IndexFunc(s, needsQuote) >= 0 {
			buf = strconv.AppendQuote(buf, s)
		} else {
			buf = append(buf, s...)
		}
	}
	return buf
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}
