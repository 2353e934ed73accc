package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"CORPREG_RENDERER_URL", "SELENIUM_REMOTE_URL", "CORPREG_STATE", "STATE",
		"CORPREG_PAGE_LOAD_TIMEOUT", "CORPREG_BLOCKED_RESOURCES",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "", cfg.Browser.RemoteURL)
	assert.Equal(t, "WV", cfg.Registry.State)
	assert.Equal(t, 30*time.Second, cfg.Renderer.PageLoadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Renderer.WaitTimeout)
	assert.Equal(t, 20*time.Second, cfg.Renderer.ResultsTimeout)
	assert.Equal(t, []string{"Image", "Font", "Media"}, cfg.Browser.BlockedResourceTypes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CORPREG_RENDERER_URL", "")
	t.Setenv("SELENIUM_REMOTE_URL", "http://selenium:9222")
	t.Setenv("CORPREG_STATE", "")
	t.Setenv("STATE", "OH")
	t.Setenv("CORPREG_RESULTS_TIMEOUT", "45s")
	t.Setenv("CORPREG_API_KEYS", " a , ,b")

	cfg := Load()

	assert.Equal(t, "http://selenium:9222", cfg.Browser.RemoteURL)
	assert.Equal(t, "OH", cfg.Registry.State)
	assert.Equal(t, 45*time.Second, cfg.Renderer.ResultsTimeout)
	assert.Equal(t, []string{"a", "b"}, cfg.Auth.APIKeys)
}

func TestEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, envIntOr("X_INT", 7))
	assert.True(t, envBoolOr("X_BOOL", true))
	assert.Equal(t, time.Second, envDurationOr("X_DUR", time.Second))
}
