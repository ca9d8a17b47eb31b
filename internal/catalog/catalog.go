// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog builds the list of plant family names to query from the
// plant list's browse pages.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/sidscraper/internal/httputil"
	"github.com/pdiddy/sidscraper/pkg/types"
)

const (
	// DefaultBaseURL is the plant list site root.
	DefaultBaseURL = "http://www.theplantlist.org"

	// DefaultGroupDelay separates consecutive browse page requests.
	DefaultGroupDelay = 2 * time.Second

	familySelector = "i.family"
)

// DefaultGroups are the major-group letters read by default.
var DefaultGroups = []string{"A", "G"}

// ErrCatalogUnavailable means a browse page could not be fetched; no run
// is possible without the full catalog.
var ErrCatalogUnavailable = errors.New("family catalog unavailable")

// Sleep waits between group fetches. Tests override it to avoid real sleeps.
var Sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BrowseURL returns the browse page URL for a major-group letter.
func BrowseURL(baseURL, group string) string {
	return strings.TrimRight(baseURL, "/") + "/1.1/browse/" + group + "/"
}

// Build fetches the browse page of each group in cfg.Groups and returns the
// family names in encounter order. Names are taken verbatim; duplicates are
// kept. Any page that cannot be fetched aborts the build.
func Build(ctx context.Context, f httputil.Fetcher, cfg types.CatalogConfig, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	groups := cfg.Groups
	if len(groups) == 0 {
		groups = DefaultGroups
	}
	delay := cfg.GroupDelay
	if delay <= 0 {
		delay = DefaultGroupDelay
	}

	var families []string
	for i, group := range groups {
		if i > 0 {
			if err := Sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		pageURL := BrowseURL(baseURL, group)
		res := f.Fetch(ctx, pageURL)
		if res.Outcome != httputil.OutcomeOK {
			return nil, fmt.Errorf("%w: group %s (%s): %w", ErrCatalogUnavailable, group, res.Outcome, res.Err)
		}

		names := FamilyNames(res.Doc.Selection)
		log.DebugContext(ctx, "read browse page", "group", group, "families", len(names))
		families = append(families, names...)
	}
	return families, nil
}

// FamilyNames returns the text of every family marker in sel, in document order.
func FamilyNames(sel *goquery.Selection) []string {
	return sel.Find(familySelector).Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
}
