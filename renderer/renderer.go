package renderer

import (
	"context"
	"net/url"

	"github.com/use-agent/corpreg/models"
)

// Renderer renders a page in a browser and returns the outer HTML of one
// container element.
type Renderer interface {
	Render(ctx context.Context, req *Request) (*Result, error)
}

// Request describes a single render call.
//
// When Query is set the page is treated as a search form: the query is
// typed into InputSelector and submitted before waiting for
// ContainerSelector. Otherwise the page is loaded and ContainerSelector is
// waited for directly.
type Request struct {
	URL               string
	Query             string
	InputSelector     string
	ContainerSelector string
}

// Result is the output of a successful render.
type Result struct {
	// HTML is the container's outer markup, verbatim.
	HTML string

	// OrgID is the org query parameter of the requested URL. The detail
	// page body does not reliably echo it, so it travels with the HTML.
	OrgID string

	// FinalURL is the page location after navigation and form submission.
	FinalURL string
}

// IsSearch reports whether the request submits a query.
func (r *Request) IsSearch() bool {
	return r.Query != ""
}

// Validate checks that the request can be rendered.
func (r *Request) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return models.NewRenderError(models.ErrCodeInvalidInput, "url must be absolute", err)
	}
	if r.ContainerSelector == "" {
		return models.NewRenderError(models.ErrCodeInvalidInput, "container selector is required", nil)
	}
	if r.IsSearch() && r.InputSelector == "" {
		return models.NewRenderError(models.ErrCodeInvalidInput, "input selector is required with a query", nil)
	}
	return nil
}

// OrgIDFromURL returns the org query parameter of rawURL, or "".
func OrgIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("org")
}
