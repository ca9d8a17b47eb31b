// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the per-family harvest: fetch each family's
// detail page, learn the field styles from the first page that has
// records, and extract trait rows from every page in catalog order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/sidscraper/internal/httputil"
	"github.com/pdiddy/sidscraper/internal/sid"
	"github.com/pdiddy/sidscraper/pkg/types"
)

// DefaultFamilyDelay is the pause after each family request.
const DefaultFamilyDelay = 10 * time.Second

// ErrUpstreamFailed wraps a non-timeout fetch failure during the harvest.
// Such failures end the run.
var ErrUpstreamFailed = errors.New("upstream request failed")

// State is the stage a family reached in the harvest.
type State int

const (
	StatePending State = iota
	StateFetching
	StateSkipped
	StateResolving
	StateExtracting
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetching:
		return "fetching"
	case StateSkipped:
		return "skipped"
	case StateResolving:
		return "resolving"
	case StateExtracting:
		return "extracting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result holds the outcome of a harvest run.
type Result struct {
	// Rows is the accumulated table in encounter order.
	Rows types.ResultTable

	// Styles is the field style map, nil if no page ever declared records.
	Styles *types.FieldStyleMap

	// Extracted counts families whose page was parsed for rows.
	Extracted int

	// Empty counts families whose page declared no records.
	Empty int

	// Skipped counts families whose page could not be fetched in time.
	Skipped int

	// SkippedFamilies lists the skipped families in order.
	SkippedFamilies []string
}

// Total returns the number of families processed.
func (r Result) Total() int {
	return r.Extracted + r.Empty + r.Skipped
}

// Harvester runs the per-family loop. It is not safe for concurrent use;
// the harvest is strictly sequential.
type Harvester struct {
	fetcher  httputil.Fetcher
	baseURL  string
	delay    time.Duration
	log      *slog.Logger
	progress Progress
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets the logger used for per-family messages.
func WithLogger(log *slog.Logger) Option {
	return func(h *Harvester) { h.log = log }
}

// WithProgress sets the progress reporter.
func WithProgress(p Progress) Option {
	return func(h *Harvester) { h.progress = p }
}

// WithSleep replaces the delay function, mainly for tests.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(h *Harvester) { h.sleep = sleep }
}

// New returns a Harvester reading detail pages through f.
func New(f httputil.Fetcher, cfg types.HarvestConfig, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher:  f,
		baseURL:  cfg.BaseURL,
		delay:    cfg.FamilyDelay,
		log:      slog.Default(),
		progress: NopProgress{},
		sleep:    sleepContext,
	}
	if h.baseURL == "" {
		h.baseURL = sid.DefaultBaseURL
	}
	if h.delay <= 0 {
		h.delay = DefaultFamilyDelay
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run harvests every family in order. A family whose page times out is
// logged and skipped; any other fetch failure aborts the run with an
// error wrapping ErrUpstreamFailed. The configured delay follows every
// family except the last, whatever its outcome.
func (h *Harvester) Run(ctx context.Context, families []string) (Result, error) {
	var res Result
	h.progress.Start(len(families))
	defer h.progress.Done()

	for i, family := range families {
		state, err := h.harvestFamily(ctx, family, &res)
		if err != nil {
			return res, err
		}
		h.log.DebugContext(ctx, "family processed", "family", family, "state", state)
		h.progress.Increment()

		if i < len(families)-1 {
			if err := h.sleep(ctx, h.delay); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// harvestFamily moves one family through fetch, optional style
// resolution, and extraction, returning the terminal state it passed
// through before done.
func (h *Harvester) harvestFamily(ctx context.Context, family string, res *Result) (State, error) {
	pageURL := sid.DetailURL(h.baseURL, family)
	fetched := h.fetcher.Fetch(ctx, pageURL)

	switch fetched.Outcome {
	case httputil.OutcomeOK:
	case httputil.OutcomeTimedOut:
		h.log.WarnContext(ctx, "failed request for family, skipping", "family", family, "err", fetched.Err)
		res.Skipped++
		res.SkippedFamilies = append(res.SkippedFamilies, family)
		return StateSkipped, nil
	default:
		return StateFetching, fmt.Errorf("%w: family %s: %w", ErrUpstreamFailed, family, fetched.Err)
	}

	doc := fetched.Doc
	if !sid.HasRecords(doc) {
		res.Empty++
		return StateSkipped, nil
	}

	state := StateExtracting
	if res.Styles == nil {
		styles := sid.ResolveStyles(doc)
		res.Styles = &styles
		state = StateResolving
		h.log.DebugContext(ctx, "resolved field styles", "family", family, "fields", styles.Len())
	}

	rows, err := sid.ExtractRecords(doc, *res.Styles)
	if err != nil {
		h.log.WarnContext(ctx, "could not extract records", "family", family, "err", err)
	}
	res.Rows = append(res.Rows, rows...)
	res.Extracted++
	return state, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
