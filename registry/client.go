package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/extract"
	"github.com/use-agent/corpreg/models"
	"github.com/use-agent/corpreg/renderer"
)

// Client looks entities up on one registry site. Failures never cross
// its boundary: they are logged and turned into empty results.
// It is safe for concurrent use.
type Client struct {
	renderer renderer.Renderer
	site     Site
	state    string
	search   *extract.SearchParser
	detail   *extract.DetailParser
}

// New creates a Client for site, rendering pages with r and stamping every
// record with cfg.State.
func New(r renderer.Renderer, site Site, cfg config.RegistryConfig) (*Client, error) {
	if r == nil {
		return nil, fmt.Errorf("registry: renderer is required")
	}
	if cfg.State == "" {
		return nil, fmt.Errorf("registry: state is required")
	}
	sp, err := extract.NewSearchParser(site.Search)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	dp, err := extract.NewDetailParser(site.Detail)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return &Client{
		renderer: r,
		site:     site,
		state:    cfg.State,
		search:   sp,
		detail:   dp,
	}, nil
}

// State returns the jurisdiction tag stamped on records.
func (c *Client) State() string { return c.state }

// Site returns the site profile the client was built with.
func (c *Client) Site() Site { return c.site }

// Search submits query to the site's search form and returns the parsed
// results in page order. Any failure yields an empty slice.
func (c *Client) Search(ctx context.Context, query string) (results []models.SearchResult) {
	results = []models.SearchResult{}

	query = strings.TrimSpace(query)
	if query == "" {
		slog.Warn("search skipped: empty query")
		return results
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("search failed unexpectedly", "query", query, "panic", rec)
			results = []models.SearchResult{}
		}
	}()

	res, err := c.renderer.Render(ctx, &renderer.Request{
		URL:               c.site.SearchURL,
		Query:             query,
		InputSelector:     c.site.InputSelector,
		ContainerSelector: c.site.ResultsSelector,
	})
	if err != nil {
		slog.Error("error fetching search results", "query", query, "error", err)
		return results
	}

	results = c.search.Parse(res.HTML, c.state, c.site.DetailBaseURL)
	slog.Info("search completed", "query", query, "results", len(results))
	return results
}

// Details renders a detail page and returns the parsed record.
// Any failure yields the zero record, which encodes as {}.
func (c *Client) Details(ctx context.Context, detailURL string) models.DetailRecord {
	rec, _ := c.DetailsPage(ctx, detailURL)
	return rec
}

// DetailsPage is Details that also returns the rendered container HTML,
// which is empty when rendering failed.
func (c *Client) DetailsPage(ctx context.Context, detailURL string) (rec models.DetailRecord, html string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("detail fetch failed unexpectedly", "url", detailURL, "panic", r)
			rec, html = models.DetailRecord{}, ""
		}
	}()

	res, err := c.renderer.Render(ctx, &renderer.Request{
		URL:               detailURL,
		ContainerSelector: c.site.DetailSelector,
	})
	if err != nil {
		slog.Error("error fetching details", "url", detailURL, "error", err)
		return models.DetailRecord{}, ""
	}

	rec = c.detail.Parse(res.HTML, res.OrgID, c.state)
	return rec, res.HTML
}

// ValidateDetailURL checks that rawURL points at this site and carries
// an org parameter.
func (c *Client) ValidateDetailURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	base, err := url.Parse(c.site.DetailBaseURL)
	if err != nil {
		return fmt.Errorf("site has invalid detail base url: %w", err)
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return fmt.Errorf("url host %q does not belong to %s", u.Host, c.site.Name)
	}
	if renderer.OrgIDFromURL(rawURL) == "" {
		return fmt.Errorf("url is missing the org parameter")
	}
	return nil
}
