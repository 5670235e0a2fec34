// Package netutil classifies failures of outbound Telegram calls so the
// sender and the HTTP transport agree on what is worth another attempt.
package netutil

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// Kind is a coarse failure category used in logs.
type Kind string

const (
	KindNone      Kind = ""
	KindCancelled Kind = "cancelled"
	KindTimeout   Kind = "timeout"
	KindDNS       Kind = "dns"
	KindDial      Kind = "dial"
	KindTLS       Kind = "tls"
	KindFlood     Kind = "flood"
	KindServer    Kind = "http_5xx"
	KindClient    Kind = "http_4xx"
	KindUnknown   Kind = "unknown"
)

// Verdict is the outcome of Classify.
type Verdict struct {
	Kind Kind
	// Code is the HTTP status reported by Telegram, when known.
	Code  int
	Retry bool
	// After is the server-requested pause before the next attempt.
	After time.Duration
}

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

// Classify inspects err and its chain.
func Classify(err error) Verdict {
	if err == nil {
		return Verdict{}
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return Verdict{
			Kind:  KindFlood,
			Code:  http.StatusTooManyRequests,
			Retry: true,
			After: time.Duration(flood.RetryAfter) * time.Second,
		}
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return byStatus(apiErr.Code)
	}
	var groupErr tele.GroupError
	if errors.As(err, &groupErr) {
		return byStatus(http.StatusBadRequest)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return Verdict{Kind: KindCancelled}
	case errors.Is(err, context.DeadlineExceeded):
		return Verdict{Kind: KindTimeout, Retry: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return Verdict{Kind: KindTimeout, Retry: true}
		}
		return Verdict{Kind: KindDNS, Retry: dnsErr.IsTemporary}
	}
	var alert tls.AlertError
	if errors.As(err, &alert) {
		return Verdict{Kind: KindTLS}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Verdict{Kind: KindTimeout, Retry: true}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return Verdict{Kind: KindDial, Retry: true}
	}

	if code := trailingStatus(err.Error()); code > 0 {
		return byStatus(code)
	}
	return Verdict{Kind: KindUnknown}
}

// ShouldRetry reports whether another attempt of the failed call may succeed.
func ShouldRetry(err error) bool {
	return Classify(err).Retry
}

// Redact hides bot tokens embedded in API URLs.
func Redact(msg string) string {
	return tokenRe.ReplaceAllString(msg, "bot<redacted>")
}

func byStatus(code int) Verdict {
	v := Verdict{Code: code}
	switch {
	case code == http.StatusTooManyRequests:
		v.Kind, v.Retry = KindFlood, true
	case code >= 500:
		v.Kind, v.Retry = KindServer, true
	case code >= 400:
		v.Kind = KindClient
	default:
		v.Kind = KindUnknown
	}
	return v
}

// trailingStatus reads the "(403)" suffix telebot appends to API errors
// that it could not map onto a typed error.
func trailingStatus(msg string) int {
	open := strings.LastIndexByte(msg, '(')
	if open < 0 || !strings.HasSuffix(msg, ")") {
		return 0
	}
	code, err := strconv.Atoi(strings.TrimSpace(msg[open+1 : len(msg)-1]))
	if err != nil || code < 100 || code > 599 {
		return 0
	}
	return code
}
