// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil fetches upstream HTML pages and parses them into
// documents. Every request reports one of a closed set of outcomes so that
// callers decide explicitly which failures are fatal.
package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/corpix/uarand"
	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/sidscraper/pkg/types"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 2
)

// FallbackUserAgent is sent whenever the random pool yields nothing.
const FallbackUserAgent = "Mozilla/5.0 (Windows NT 5.1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/35.0.2117.157 Safari/537.36"

// userAgentPool draws from a list compiled into the binary, so picking a
// header never touches the network.
var userAgentPool = uarand.GetRandom

// UserAgent picks the User-Agent header for each attempt. Tests replace it
// with a fixed value.
var UserAgent = randomUserAgent

func randomUserAgent() string {
	if ua := strings.TrimSpace(userAgentPool()); ua != "" {
		return ua
	}
	return FallbackUserAgent
}

// ErrFetchFailed marks a request that failed for a reason other than a timeout.
var ErrFetchFailed = errors.New("fetch failed")

// Outcome classifies the result of a fetch.
type Outcome int

const (
	// OutcomeOK means a document was fetched and parsed.
	OutcomeOK Outcome = iota
	// OutcomeTimedOut means every attempt timed out.
	OutcomeTimedOut
	// OutcomeFailed means a non-timeout failure: transport error, HTTP
	// error status, or an unparsable body.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of a fetch. Doc is set only for OutcomeOK; Err is
// set for every other outcome.
type Result struct {
	Outcome  Outcome
	Doc      *goquery.Document
	Err      error
	Attempts int
}

// Fetcher retrieves and parses a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) Result
}

// Client is the production Fetcher backed by resty.
type Client struct {
	http        *resty.Client
	maxAttempts int
	log         *slog.Logger
}

// NewClient builds a Client from cfg. Zero values fall back to a 10s
// timeout and 2 attempts. A nil logger uses slog.Default().
func NewClient(cfg types.HTTPConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	if log == nil {
		log = slog.Default()
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "text/html")

	return &Client{
		http:        client,
		maxAttempts: attempts,
		log:         log,
	}
}

// Fetch GETs rawURL and parses the body as HTML. Only timeouts are
// retried; each attempt sends a freshly picked User-Agent.
func (c *Client) Fetch(ctx context.Context, rawURL string) Result {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		res, err := c.http.R().
			SetContext(ctx).
			SetHeader("User-Agent", UserAgent()).
			Get(rawURL)
		if err != nil {
			if ctx.Err() == nil && isTimeout(err) {
				c.log.WarnContext(ctx, "request timed out",
					"url", rawURL, "attempt", attempt, "max_attempts", c.maxAttempts)
				lastErr = err
				continue
			}
			return Result{
				Outcome:  OutcomeFailed,
				Err:      fmt.Errorf("%w: %s: %w", ErrFetchFailed, rawURL, err),
				Attempts: attempt,
			}
		}

		if res.IsError() {
			return Result{
				Outcome:  OutcomeFailed,
				Err:      fmt.Errorf("%w: HTTP %d from %s", ErrFetchFailed, res.StatusCode(), rawURL),
				Attempts: attempt,
			}
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
		if err != nil {
			return Result{
				Outcome:  OutcomeFailed,
				Err:      fmt.Errorf("%w: parsing %s: %w", ErrFetchFailed, rawURL, err),
				Attempts: attempt,
			}
		}
		return Result{Outcome: OutcomeOK, Doc: doc, Attempts: attempt}
	}

	return Result{
		Outcome:  OutcomeTimedOut,
		Err:      fmt.Errorf("%s: no response after %d attempt(s): %w", rawURL, c.maxAttempts, lastErr),
		Attempts: c.maxAttempts,
	}
}

// isTimeout reports whether err is a client-side request timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
