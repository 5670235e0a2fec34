package logger

import (
	"strconv"
	"strings"
	"time"
)

// RoundMS rounds d to whole milliseconds; negative values become 0.
func RoundMS(d time.Duration) time.Duration {
	return max(d, 0).Round(time.Millisecond)
}

// Took is the millisecond-rounded time since start.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// Status is StatusFail for a non-nil err and StatusOK otherwise.
func Status(err error) string {
	if err == nil {
		return StatusOK
	}
	return StatusFail
}

// Preview joins up to limit values with ", " and appends "+N" for the rest.
func Preview(values []string, limit int) string {
	limit = max(limit, 0)
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	head := strings.Join(values[:limit], ", ")
	rest := "+" + strconv.Itoa(len(values)-limit)
	if head == "" {
		return rest
	}
	return head + " " + rest
}
