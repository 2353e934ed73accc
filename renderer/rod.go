package renderer

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/models"
	"github.com/ysmood/gson"
)

// readyStateJS resolves once the document has finished loading.
const readyStateJS = `() => document.readyState === "complete"`

// RodRenderer renders pages with go-rod. Every Render call owns a fresh
// browser session that is released before Render returns.
// It is safe for concurrent use.
type RodRenderer struct {
	browserCfg  config.BrowserConfig
	rendererCfg config.RendererConfig

	active atomic.Int32
	total  atomic.Int64
	failed atomic.Int64
}

// NewRodRenderer creates a RodRenderer. No browser is contacted until the
// first Render call.
func NewRodRenderer(browserCfg config.BrowserConfig, rendererCfg config.RendererConfig) *RodRenderer {
	return &RodRenderer{
		browserCfg:  browserCfg,
		rendererCfg: rendererCfg,
	}
}

// Stats returns a snapshot of session usage.
func (r *RodRenderer) Stats() models.SessionStats {
	return models.SessionStats{
		Remote:         r.browserCfg.RemoteURL != "",
		ActiveSessions: int(r.active.Load()),
		TotalSessions:  r.total.Load(),
		FailedSessions: r.failed.Load(),
	}
}

// Render drives one page load and returns the container's outer HTML.
//
// Lifecycle:
//
//  1. Open session          : connect (remote) or launch (local)
//  2. DEFER: session.Close  : runs on every exit path, panics included
//  3. Page options          : stealth script, Accept-Language, resource blocking
//  4. Navigate + load event : bounded by PageLoadTimeout
//  5. Ready state           : bounded by WaitTimeout
//  6. Search only: fill and submit the query input, bounded by WaitTimeout
//  7. Container wait        : ResultsTimeout for searches, WaitTimeout otherwise
//  8. Extract               : outer HTML of the container
func (r *RodRenderer) Render(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.active.Add(1)
	defer r.active.Add(-1)
	r.total.Add(1)

	// ── 1-2. Session ────────────────────────────────────────────────
	sess, err := openSession(ctx, r.browserCfg)
	if err != nil {
		r.failed.Add(1)
		return nil, err
	}
	defer sess.Close()

	res, err := r.render(ctx, sess.page, req)
	if err != nil {
		r.failed.Add(1)
		return nil, err
	}
	return res, nil
}

func (r *RodRenderer) render(ctx context.Context, page *rod.Page, req *Request) (*Result, error) {
	// ── 3. Page options (before navigation) ─────────────────────────
	if r.browserCfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": "en-US,en;q=0.9"}),
	}).Call(page); err != nil {
		slog.Debug("failed to set extra headers", "error", err)
	}
	if router := setupHijack(page, r.browserCfg.BlockedResourceTypes); router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	// ── 4. Navigate ─────────────────────────────────────────────────
	err := withTimeout(p, r.rendererCfg.PageLoadTimeout, func(tp *rod.Page) error {
		if err := tp.Navigate(req.URL); err != nil {
			return err
		}
		return tp.WaitLoad()
	})
	if err != nil {
		return nil, categorizeError(err, models.ErrCodeNavigation, "navigation failed")
	}

	// ── 5. Ready state ──────────────────────────────────────────────
	err = withTimeout(p, r.rendererCfg.WaitTimeout, func(tp *rod.Page) error {
		return tp.Wait(rod.Eval(readyStateJS))
	})
	if err != nil {
		return nil, categorizeError(err, models.ErrCodeTimeout, "page never became ready")
	}

	// ── 6. Submit query ─────────────────────────────────────────────
	containerTimeout := r.rendererCfg.WaitTimeout
	if req.IsSearch() {
		err = withTimeout(p, r.rendererCfg.WaitTimeout, func(tp *rod.Page) error {
			return submitQuery(tp, req.InputSelector, req.Query)
		})
		if err != nil {
			return nil, err
		}
		containerTimeout = r.rendererCfg.ResultsTimeout
	}

	// ── 7-8. Container ──────────────────────────────────────────────
	var html string
	err = withTimeout(p, containerTimeout, func(tp *rod.Page) error {
		el, err := waitElement(tp, req.ContainerSelector)
		if err != nil {
			return categorizeError(err, models.ErrCodeElementNotFound, "container "+req.ContainerSelector+" not found")
		}
		html, err = el.HTML()
		if err != nil {
			return categorizeError(err, models.ErrCodeNavigation, "failed to read container HTML")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &Result{
		HTML:     html,
		OrgID:    OrgIDFromURL(req.URL),
		FinalURL: finalURL,
	}, nil
}

// submitQuery waits for the input control, types the query and presses Enter.
func submitQuery(p *rod.Page, selector, query string) error {
	el, err := waitElement(p, selector)
	if err != nil {
		return categorizeError(err, models.ErrCodeElementNotFound, "search input "+selector+" not found")
	}
	if err := el.Input(query); err != nil {
		return categorizeError(err, models.ErrCodeInputFailed, "failed to type query")
	}
	if err := el.Type(input.Enter); err != nil {
		return categorizeError(err, models.ErrCodeInputFailed, "failed to submit query")
	}
	return nil
}

// waitElement is Page.Element that keeps waiting while a navigation, such
// as a form postback, replaces the document it is polling.
func waitElement(p *rod.Page, selector string) (*rod.Element, error) {
	ctx := p.GetContext()
	for {
		el, err := p.Element(selector)
		if !errors.Is(err, cdp.ErrCtxDestroyed) {
			return el, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// withTimeout runs fn against a copy of p bounded by d.
func withTimeout(p *rod.Page, d time.Duration, fn func(*rod.Page) error) error {
	tp := p.Timeout(d)
	defer tp.CancelTimeout()
	return fn(tp)
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw rod errors into RenderErrors. A deadline is
// reported as a timeout, except for element waits where running out of
// time means the element never appeared. Errors that already are
// RenderErrors pass through unchanged.
func categorizeError(err error, code, msg string) error {
	var re *models.RenderError
	switch {
	case errors.As(err, &re):
		return re
	case errors.Is(err, context.DeadlineExceeded) && code != models.ErrCodeElementNotFound:
		return models.NewRenderError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewRenderError(models.ErrCodeTimeout, "render canceled", err)
	default:
		return models.NewRenderError(code, msg, err)
	}
}
