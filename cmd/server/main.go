package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/news-feed/app/api"
	"github.com/lysyi3m/news-feed/app/cfg"
	"github.com/lysyi3m/news-feed/app/content"
	"github.com/lysyi3m/news-feed/app/feed"
	"github.com/lysyi3m/news-feed/app/scheduler"
	"github.com/lysyi3m/news-feed/app/session"
	"github.com/lysyi3m/news-feed/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting News Feed server", "version", appCfg.Version)

	registry := sources.NewRegistry(appCfg.SourcesDir)
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load sources", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "count", registry.GetSourceCount(), "dir", appCfg.SourcesDir)

	source, err := registry.GetSource(appCfg.Source)
	if err != nil {
		slog.Error("Startup source not configured", "source", appCfg.Source, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: appCfg.Timeout}
	fetcher := sources.NewFetcher(registry, feed.NewFetcher(httpClient, appCfg.UserAgent))

	feedSession := session.New(session.Config{
		Endpoint: source.URL,
		APIKey:   appCfg.APIKey,
		Policy:   appCfg.SortPolicy,
	}, fetcher)

	if appCfg.APIKey == "" {
		slog.Warn("NEWS_API_KEY not set, requests go out without an apiKey")
	}

	refreshScheduler := scheduler.NewScheduler(feedSession, appCfg.RefreshInterval, appCfg.Timeout)
	refreshScheduler.Start()
	defer refreshScheduler.Stop()

	// Initial load, same as opening the app
	if err := refreshScheduler.EnqueueTask(scheduler.NewRefreshTask(feedSession)); err != nil {
		slog.Warn("Failed to enqueue initial refresh", "error", err)
	}

	extractor := content.NewExtractor(httpClient, appCfg.UserAgent, appCfg.Timeout)
	apiHandler := api.NewHandler(feedSession, registry, extractor, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.AccessKey)

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "source", source.Name, "policy", appCfg.SortPolicy)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

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
}
