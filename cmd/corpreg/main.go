package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/corpreg/api"
	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/registry"
	"github.com/use-agent/corpreg/renderer"
	"github.com/use-agent/corpreg/snapshot"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("corpreg starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"state", cfg.Registry.State,
		"remoteRenderer", cfg.Browser.RemoteURL != "",
	)

	// ── 3. Renderer + registry client ───────────────────────────────
	rend := renderer.NewRodRenderer(cfg.Browser, cfg.Renderer)

	rc, err := registry.New(rend, registry.WestVirginia(), cfg.Registry)
	if err != nil {
		slog.Error("failed to initialise registry client", "error", err)
		os.Exit(1)
	}

	// ── 4. Router ───────────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(rc, rend, snapshot.NewConverter(), cfg, startTime)

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// A search may hold a session for page load + results wait; give
	// in-flight requests that long to finish.
	grace := cfg.Renderer.PageLoadTimeout + cfg.Renderer.ResultsTimeout
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("corpreg stopped", "sessions", rend.Stats().TotalSessions)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
