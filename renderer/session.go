package renderer

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/models"
)

// session is one exclusive browser session: a browser context and a
// single page in it. Every session is created by openSession and must be
// released with Close, which is safe to call on a partially opened
// session.
//
// Remote sessions live in their own incognito context on a connection the
// session owns, so closing one never touches other targets on the shared
// renderer. Local sessions own the whole browser process.
type session struct {
	browser  *rod.Browser
	page     *rod.Page
	conn     *cdp.WebSocket
	launcher *launcher.Launcher
}

// openSession connects to the remote renderer, or launches a local
// browser when no endpoint is configured, and opens a blank page.
//
// ctx bounds only the connection handshake. The browser and page are
// created without it so that Close still works after the request
// deadline has passed.
func openSession(ctx context.Context, cfg config.BrowserConfig) (*session, error) {
	if cfg.RemoteURL != "" {
		return openRemote(ctx, cfg.RemoteURL)
	}
	return openLocal(cfg)
}

func openRemote(ctx context.Context, endpoint string) (*session, error) {
	s := &session{}

	u, err := launcher.ResolveURL(endpoint)
	if err != nil {
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to resolve renderer endpoint", err)
	}

	ws := &cdp.WebSocket{}
	if err := ws.Connect(ctx, u, nil); err != nil {
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to connect to renderer", err)
	}
	s.conn = ws

	root := rod.New().Client(cdp.New().Start(ws))
	if err := root.Connect(); err != nil {
		s.Close()
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to connect to renderer", err)
	}

	browser, err := root.Incognito()
	if err != nil {
		s.Close()
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to create browser context", err)
	}
	s.browser = browser

	return s.openPage()
}

func openLocal(cfg config.BrowserConfig) (*session, error) {
	s := &session{}

	l := newLauncher(cfg)
	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to launch browser", err)
	}
	s.launcher = l

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		s.Close()
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to connect to browser", err)
	}
	s.browser = browser

	return s.openPage()
}

func (s *session) openPage() (*session, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, models.NewRenderError(models.ErrCodeConnect, "failed to create page", err)
	}
	s.page = page
	return s, nil
}

// Close closes the page and then the browser. For a remote session that
// disposes the incognito context and drops the connection; for a local
// one it quits the browser, kills the process and removes its profile
// directory.
func (s *session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			slog.Debug("session: page close failed", "error", err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			slog.Debug("session: browser close failed", "error", err)
		}
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}

// newLauncher builds a launcher carrying the fixed browser options.
func newLauncher(cfg config.BrowserConfig) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	l.Set(flags.Flag("lang"), "en-US")
	l.Set(flags.Flag("start-maximized"))
	l.Set(flags.Flag("disable-webrtc"))
	l.Set(flags.Flag("disable-features"), "WebRtcHideLocalIpsWithMdns,DnsOverHttps")
	l.Set(flags.Flag("force-webrtc-ip-handling-policy"), "default_public_interface_only")
	l.Set(flags.Flag("no-default-browser-check"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("test-type"))
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Delete(flags.Flag("enable-automation"))

	return l
}
