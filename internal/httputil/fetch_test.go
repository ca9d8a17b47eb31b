// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corpix/uarand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sidscraper/pkg/types"
)

func init() {
	UserAgent = func() string { return "sidscraper-test" }
}

func testClient(timeout time.Duration, attempts int) *Client {
	return NewClient(types.HTTPConfig{Timeout: timeout, MaxAttempts: attempts}, nil)
}

func TestFetch_OK(t *testing.T) {
	var calls int32
	var gotUA atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotUA.Store(r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html><body><i class="family">Rosaceae</i></body></html>`)
	}))
	defer ts.Close()

	res := testClient(time.Second, 2).Fetch(context.Background(), ts.URL)
	require.Equal(t, OutcomeOK, res.Outcome, "err: %v", res.Err)
	require.NotNil(t, res.Doc)
	assert.NoError(t, res.Err)
	assert.Equal(t, "Rosaceae", res.Doc.Find("i.family").Text())
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "sidscraper-test", gotUA.Load())
}

func TestFetch_TimeoutThenSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-r.Context().Done():
			}
			return
		}
		fmt.Fprint(w, `<p>ok</p>`)
	}))
	defer ts.Close()

	res := testClient(50*time.Millisecond, 2).Fetch(context.Background(), ts.URL)
	require.Equal(t, OutcomeOK, res.Outcome, "err: %v", res.Err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_AllAttemptsTimeOut(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()

	res := testClient(50*time.Millisecond, 3).Fetch(context.Background(), ts.URL)
	assert.Equal(t, OutcomeTimedOut, res.Outcome)
	assert.Nil(t, res.Doc)
	assert.Error(t, res.Err)
	assert.NotErrorIs(t, res.Err, ErrFetchFailed)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetch_HTTPErrorIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	res := testClient(time.Second, 3).Fetch(context.Background(), ts.URL)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrFetchFailed)
	assert.Contains(t, res.Err.Error(), "HTTP 500")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	res := testClient(time.Second, 2).Fetch(context.Background(), url)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrFetchFailed)
	assert.Equal(t, 1, res.Attempts)
}

func TestFetch_CancelledContextIsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<p>late</p>`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := testClient(time.Second, 2).Fetch(ctx, ts.URL)
	assert.Equal(t, OutcomeFailed, res.Outcome)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(types.HTTPConfig{}, nil)
	assert.Equal(t, defaultMaxAttempts, c.maxAttempts)
	assert.Equal(t, defaultTimeout, c.http.GetClient().Timeout)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "timed out", OutcomeTimedOut.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}

// withPool restores the real User-Agent picker backed by pool for one test.
func withPool(t *testing.T, pool func() string) {
	t.Helper()
	prevUA, prevPool := UserAgent, userAgentPool
	UserAgent, userAgentPool = randomUserAgent, pool
	t.Cleanup(func() { UserAgent, userAgentPool = prevUA, prevPool })
}

func TestFetch_EmptyPoolSendsFallbackUserAgent(t *testing.T) {
	withPool(t, func() string { return "" })

	var mu sync.Mutex
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("User-Agent"))
		mu.Unlock()
		fmt.Fprint(w, `<p>ok</p>`)
	}))
	defer ts.Close()

	c := testClient(time.Second, 2)
	for i := 0; i < 3; i++ {
		res := c.Fetch(context.Background(), ts.URL)
		require.Equal(t, OutcomeOK, res.Outcome, "err: %v", res.Err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	for _, ua := range seen {
		assert.Equal(t, FallbackUserAgent, ua)
		assert.NotContains(t, ua, "go-resty")
	}
}

func TestUserAgent_BuiltInPool(t *testing.T) {
	withPool(t, uarand.GetRandom)

	for i := 0; i < 20; i++ {
		ua := UserAgent()
		assert.NotEmpty(t, ua)
		assert.NotContains(t, ua, "go-resty")
	}
}

func TestUserAgent_BlankPoolEntryFallsBack(t *testing.T) {
	withPool(t, func() string { return "   " })
	assert.Equal(t, FallbackUserAgent, UserAgent())
}
