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

	"github.com/lysyi3m/rss-ticker/app/api"
	"github.com/lysyi3m/rss-ticker/app/cfg"
	"github.com/lysyi3m/rss-ticker/app/tasks"
	"github.com/lysyi3m/rss-ticker/app/ticker"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg)

	slog.Info("Starting RSS Ticker server", "version", appCfg.Version)

	registry := ticker.DefaultRegistry()

	slog.Info("Loading widget presets", "dir", appCfg.PresetsDir)
	presets := ticker.NewPresetCache(appCfg.PresetsDir, registry)
	if err := presets.Run(); err != nil {
		slog.Error("Failed to load presets", "error", err)
		os.Exit(1)
	}
	slog.Info("Presets loaded", "count", presets.GetPresetCount())

	// No client timeout: a hung provider call leaves the widget loading.
	httpClient := &http.Client{}
	fetcher := ticker.NewFetcher(httpClient, appCfg.ProviderURL, appCfg.UserAgent, appCfg.ProviderAPIKey)
	pipeline := ticker.NewPipeline(fetcher)

	slog.Info("Starting cycle scheduler", "workers", appCfg.WorkerCount, "queue_size", appCfg.QueueSize)
	scheduler := tasks.NewScheduler(appCfg.WorkerCount, appCfg.QueueSize)
	scheduler.Start()
	defer scheduler.Stop()

	instances := ticker.NewInstances(registry, pipeline, scheduler)

	apiHandler, err := api.NewHandler(registry, presets, pipeline, instances, scheduler)
	if err != nil {
		slog.Error("Failed to initialize API handler", "error", err)
		os.Exit(1)
	}
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		if appCfg.APIAccessKey == "" {
			slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("RSS Ticker server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("RSS Ticker server shutdown complete")
}

func setupLogger(appCfg *cfg.Cfg) {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if appCfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
