package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/models"
	"github.com/use-agent/corpreg/registry"
	"github.com/use-agent/corpreg/renderer"
	"github.com/use-agent/corpreg/snapshot"
)

type stubRenderer struct {
	html  map[bool]string // keyed by IsSearch
	err   error
	stats models.SessionStats
}

func (s *stubRenderer) Render(_ context.Context, req *renderer.Request) (*renderer.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &renderer.Result{HTML: s.html[req.IsSearch()], OrgID: renderer.OrgIDFromURL(req.URL)}, nil
}

func (s *stubRenderer) Stats() models.SessionStats { return s.stats }

const (
	resultsHTML = `<table id="tableResults">
<tr class="rowNormal"><td><a href="ViewOrg.aspx?org=12345">ACME WIDGETS, LLC</a></td><td>12345</td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
</table>`
	detailHTML = `<div id="content"><span id="lblOrg">ACME WIDGETS, LLC</span>
<table class="tableData"><tr class="rowNormal"><td>D</td><td>LLC</td><td>01/02/2003</td><td></td><td></td><td></td><td></td><td></td><td></td></tr></table></div>`
	detailURL = "https://apps.sos.wv.gov/business/corporations/ViewOrg.aspx?org=12345"
)

func newTestRouter(t *testing.T, sr *stubRenderer, auth bool) http.Handler {
	t.Helper()
	rc, err := registry.New(sr, registry.WestVirginia(), config.RegistryConfig{State: "WV"})
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Auth:   config.AuthConfig{Enabled: auth, APIKeys: []string{"k"}},
	}
	return NewRouter(rc, sr, snapshot.NewConverter(), cfg, time.Now())
}

func get(t *testing.T, h http.Handler, target string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{html: map[bool]string{true: resultsHTML}}, false)

	w, body := get(t, h, "/api/v1/search?q=acme")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["total"])
	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "WV", first["state"])
	assert.Equal(t, detailURL, first["url"])
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{}, false)

	w, body := get(t, h, "/api/v1/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeInvalidInput, body["error"].(map[string]any)["code"])
}

func TestSearchEndpoint_RenderFailureIsEmpty(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{err: errors.New("down")}, false)

	w, body := get(t, h, "/api/v1/search?q=acme")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["results"])
}

func TestDetailsEndpoint(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{html: map[bool]string{false: detailHTML}}, false)

	w, body := get(t, h, "/api/v1/details?format=markdown&url="+url.QueryEscape(detailURL))

	require.Equal(t, http.StatusOK, w.Code)
	rec := body["record"].(map[string]any)
	assert.Equal(t, "ACME WIDGETS, LLC", rec["name"])
	assert.Equal(t, "12345", rec["registration_number"])
	assert.Equal(t, models.StatusActive, rec["status"])
	assert.NotContains(t, rec, "mailing_address")
	assert.Contains(t, body["snapshot"], "ACME WIDGETS, LLC")
}

func TestDetailsEndpoint_NoSnapshotByDefault(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{html: map[bool]string{false: detailHTML}}, false)

	_, body := get(t, h, "/api/v1/details?url="+url.QueryEscape(detailURL))

	assert.NotContains(t, body, "snapshot")
}

func TestDetailsEndpoint_InvalidURL(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{}, false)

	for _, target := range []string{
		"/api/v1/details",
		"/api/v1/details?url=" + url.QueryEscape("https://evil.test/ViewOrg.aspx?org=1"),
		"/api/v1/details?url=" + url.QueryEscape("https://apps.sos.wv.gov/business/corporations/ViewOrg.aspx"),
		"/api/v1/details?format=pdf&url=" + url.QueryEscape(detailURL),
	} {
		w, _ := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestDetailsEndpoint_RenderFailure(t *testing.T) {
	h := newTestRouter(t, &stubRenderer{err: errors.New("down")}, false)

	w, body := get(t, h, "/api/v1/details?format=markdown&url="+url.QueryEscape(detailURL))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{}, body["record"])
	assert.NotContains(t, body, "snapshot")
}

func TestHealthBypassesAuth(t *testing.T) {
	sr := &stubRenderer{stats: models.SessionStats{TotalSessions: 4, FailedSessions: 3}}
	h := newTestRouter(t, sr, true)

	w, body := get(t, h, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "WV", body["state"])

	w, _ = get(t, h, "/api/v1/search?q=acme")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = get(t, h, "/api/v1/search?q=acme", "X-API-Key", "k")
	assert.Equal(t, http.StatusOK, w.Code)
}
