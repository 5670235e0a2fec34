package telegram

import (
	"net"
	"net/http"
	"strconv"
	"time"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

const (
	responseSlack    = 5 * time.Second
	minClientTimeout = 30 * time.Second
	transportRetries = 3
	transportBackoff = 2 * time.Second
)

// newPoller returns a webhook listener in webhook mode and a long poller
// otherwise.
func newPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:      net.JoinHostPort(cfg.Webhook.Listen, strconv.Itoa(cfg.Webhook.Port)),
			SecretToken: cfg.Webhook.SecretToken,
			Endpoint:    &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{Timeout: time.Duration(cfg.PollTimeoutSeconds()) * time.Second}
}

// newHTTPClient builds the client used for Bot API calls. Its timeouts
// leave room for a getUpdates request held open for pollTimeout.
func newHTTPClient(pollTimeout time.Duration) *http.Client {
	pollTimeout = max(pollTimeout, 0)
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: pollTimeout + responseSlack,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout: max(minClientTimeout, pollTimeout+2*responseSlack),
		Transport: &retryingTransport{
			next:    base,
			retries: transportRetries,
			backoff: transportBackoff,
		},
	}
}

// retryingTransport repeats requests that failed before a response arrived.
// Requests whose body cannot be replayed are tried once.
type retryingTransport struct {
	next    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	resp, err := next.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries; attempt++ {
		if !replayable || !netutil.ShouldRetry(err) {
			break
		}
		if werr := sleepCtx(req.Context(), t.backoff*time.Duration(attempt)); werr != nil {
			return nil, werr
		}
		again, cerr := rewind(req)
		if cerr != nil {
			return nil, cerr
		}
		resp, err = next.RoundTrip(again)
	}
	return resp, err
}

func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}
