package logger

import "strings"

// normalizeLevel maps slog level names ("WARN", "ERROR+2", ...) to the
// four names the log schema uses.
func normalizeLevel(level string) string {
	l := strings.ToUpper(strings.TrimSpace(level))
	switch {
	case l == "":
		return "INFO"
	case strings.HasPrefix(l, "ERROR"):
		return "ERROR"
	case strings.HasPrefix(l, "WARN"):
		return "WARN"
	case strings.HasPrefix(l, "DEBUG"):
		return "DEBUG"
	case strings.HasPrefix(l, "INFO"):
		return "INFO"
	}
	return l
}

// Status values used by the bots. Unknown values pass through lower-cased.
const (
	StatusOK        = "ok"
	StatusFail      = "fail"
	StatusSkip      = "skip"
	StatusRetry     = "retry"
	StatusCancelled = "cancelled"
)

func normalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "canceled" {
		return StatusCancelled
	}
	return s
}

// defaultKeyOrder puts correlation first, then the conversation fields of
// the admission flow, then the transport and error details.
var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"trace_id",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"cb_key",
	"event_kind",
	"state",
	"next_state",
	"query_kind",
	"model",
	"prompt_chars",
	"answer_chars",
	"turns",
	"source",
	"path",
	"keys",
	"links",
	"tracked",
	"duration_ms",
	"messages",
	"kb",
	"count",
	"mode",
	"listen",
	"public_url",
	"action",
	"endpoint",
	"attempt",
	"err",
	"err_code",
	"cause",
	"retryable",
	"restarts",
	"backoff_ms",
}
