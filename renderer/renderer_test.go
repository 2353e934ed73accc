package renderer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/models"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"detail", Request{URL: "https://example.test/ViewOrg.aspx?org=1", ContainerSelector: "#content"}, false},
		{"search", Request{URL: "https://example.test/", Query: "acme", InputSelector: "#q", ContainerSelector: "#r"}, false},
		{"relative url", Request{URL: "ViewOrg.aspx?org=1", ContainerSelector: "#content"}, true},
		{"no container", Request{URL: "https://example.test/"}, true},
		{"query without input", Request{URL: "https://example.test/", Query: "acme", ContainerSelector: "#r"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var re *models.RenderError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, models.ErrCodeInvalidInput, re.Code)
		})
	}
}

func TestOrgIDFromURL(t *testing.T) {
	assert.Equal(t, "12345", OrgIDFromURL("https://apps.sos.wv.gov/business/corporations/ViewOrg.aspx?org=12345"))
	assert.Equal(t, "", OrgIDFromURL("https://apps.sos.wv.gov/business/corporations/ViewOrg.aspx"))
	assert.Equal(t, "", OrgIDFromURL("://bad"))
}

func TestCategorizeError(t *testing.T) {
	deadline := fmt.Errorf("wait: %w", context.DeadlineExceeded)

	tests := []struct {
		name     string
		err      error
		code     string
		wantCode string
	}{
		{"deadline on navigation", deadline, models.ErrCodeNavigation, models.ErrCodeTimeout},
		{"deadline on element wait", deadline, models.ErrCodeElementNotFound, models.ErrCodeElementNotFound},
		{"canceled", context.Canceled, models.ErrCodeNavigation, models.ErrCodeTimeout},
		{"other", errors.New("net::ERR_NAME_NOT_RESOLVED"), models.ErrCodeNavigation, models.ErrCodeNavigation},
		{"already categorized", models.NewRenderError(models.ErrCodeInputFailed, "x", nil), models.ErrCodeNavigation, models.ErrCodeInputFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var re *models.RenderError
			require.ErrorAs(t, categorizeError(tt.err, tt.code, "msg"), &re)
			assert.Equal(t, tt.wantCode, re.Code)
		})
	}
}

func TestBlockedSet(t *testing.T) {
	got := blockedSet([]string{"Image", "Script", "Bogus", "Font"})
	assert.Len(t, got, 2)
	assert.Contains(t, got, proto.NetworkResourceTypeImage)
	assert.Contains(t, got, proto.NetworkResourceTypeFont)
	assert.NotContains(t, got, proto.NetworkResourceTypeScript)
}

func TestNewLauncher_FixedOptions(t *testing.T) {
	l := newLauncher(config.BrowserConfig{Headless: true, NoSandbox: true})

	assert.Equal(t, "en-US", l.Get(flags.Flag("lang")))
	assert.Equal(t, "AutomationControlled", l.Get(flags.Flag("disable-blink-features")))
	assert.True(t, l.Has(flags.Flag("no-first-run")))
	assert.True(t, l.Has(flags.NoSandbox))
	assert.False(t, l.Has(flags.Flag("enable-automation")))
}

func TestRodRenderer_InvalidRequestOpensNoSession(t *testing.T) {
	r := NewRodRenderer(config.BrowserConfig{}, config.RendererConfig{})

	_, err := r.Render(context.Background(), &Request{URL: "not a url"})

	require.Error(t, err)
	assert.Equal(t, models.SessionStats{}, r.Stats())
}

func TestRodRenderer_UnreachableRemote(t *testing.T) {
	r := NewRodRenderer(config.BrowserConfig{RemoteURL: "http://127.0.0.1:1"}, config.RendererConfig{})

	_, err := r.Render(context.Background(), &Request{URL: "https://example.test/", ContainerSelector: "#c"})

	var re *models.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, models.ErrCodeConnect, re.Code)
	stats := r.Stats()
	assert.True(t, stats.Remote)
	assert.Equal(t, 0, stats.ActiveSessions)
	assert.Equal(t, int64(1), stats.TotalSessions)
	assert.Equal(t, int64(1), stats.FailedSessions)
}

func TestSession_ClosePartial(t *testing.T) {
	assert.NotPanics(t, func() { (&session{}).Close() })
}
