package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Verdict
	}{
		{name: "nil", err: nil, want: Verdict{}},
		{name: "plain", err: errors.New("bad request"), want: Verdict{Kind: KindUnknown}},
		{name: "timeout", err: timeoutErr{}, want: Verdict{Kind: KindTimeout, Retry: true}},
		{
			name: "url wrapped timeout",
			err:  &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: timeoutErr{}},
			want: Verdict{Kind: KindTimeout, Retry: true},
		},
		{
			name: "dial refused",
			err:  &url.Error{Op: "Post", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
			want: Verdict{Kind: KindDial, Retry: true},
		},
		{name: "flood", err: tele.FloodError{RetryAfter: 3}, want: Verdict{Kind: KindFlood, Code: 429, Retry: true, After: 3 * time.Second}},
		{name: "server error", err: &tele.Error{Code: 502, Description: "Bad Gateway"}, want: Verdict{Kind: KindServer, Code: 502, Retry: true}},
		{name: "client error", err: &tele.Error{Code: 400, Description: "Bad Request"}, want: Verdict{Kind: KindClient, Code: 400}},
		{
			name: "status suffix",
			err:  errors.New("telegram: Forbidden: bot was blocked by the user (403)"),
			want: Verdict{Kind: KindClient, Code: 403},
		},
		{name: "cancelled", err: fmt.Errorf("send: %w", context.Canceled), want: Verdict{Kind: KindCancelled}},
		{name: "deadline", err: context.DeadlineExceeded, want: Verdict{Kind: KindTimeout, Retry: true}},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, want: Verdict{Kind: KindDNS}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
			assert.Equal(t, tt.want.Retry, ShouldRetry(tt.err))
		})
	}
}

func TestRedact(t *testing.T) {
	msg := `Post "https://api.telegram.org/bot123456:ABC-def_ghi/sendMessage": EOF`
	got := Redact(msg)
	assert.NotContains(t, got, "ABC-def_ghi")
	assert.Contains(t, got, "bot<redacted>/sendMessage")
}
