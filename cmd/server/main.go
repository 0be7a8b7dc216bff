package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ole-nepal/epustakalaya-browser/internal/analytics"
	"github.com/ole-nepal/epustakalaya-browser/internal/api"
	"github.com/ole-nepal/epustakalaya-browser/internal/assets"
	"github.com/ole-nepal/epustakalaya-browser/internal/catalog"
	"github.com/ole-nepal/epustakalaya-browser/internal/labels"
	"github.com/ole-nepal/epustakalaya-browser/internal/platform/cache"
	"github.com/ole-nepal/epustakalaya-browser/internal/platform/config"
	"github.com/ole-nepal/epustakalaya-browser/internal/platform/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	mode := catalog.Mode(cfg.ModeName())

	subjects, err := labels.LoadSubjectMap(cfg.Catalog.SubjectsPath)
	if err != nil {
		slog.Error("failed to load subject map", "error", err)
		os.Exit(1)
	}
	table, err := labels.Load(cfg.Catalog.LabelsPath)
	if err != nil {
		slog.Error("failed to load label table", "error", err)
		os.Exit(1)
	}

	loader, err := catalog.NewLoader(cfg.Catalog.DataDir)
	if err != nil {
		slog.Error("failed to open catalog directory", "error", err)
		os.Exit(1)
	}

	var snapshotCache *cache.Cache
	if cfg.Cache.Enabled {
		snapshotCache, err = cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Warn("snapshot cache unavailable, loading directly", "error", err)
			snapshotCache = nil
		} else {
			defer snapshotCache.Close()
		}
	}

	records, report, err := loader.LoadCached(ctx, snapshotCache, mode, subjects)
	if err != nil {
		slog.Error("failed to load catalogs", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded",
		"mode", mode,
		"records", len(records),
		"files", report.Files,
		"skipped", len(report.SkippedFiles),
		"warnings", report.Warnings(),
		"cache_hit", report.CacheHit,
	)

	var events analytics.EventLogger = analytics.NopEventLogger{}
	if cfg.Analytics.Enabled {
		db, err := database.New(ctx, cfg.Analytics.DatabaseURL, cfg.Analytics.MaxConns, cfg.Analytics.MinConns)
		if err != nil {
			slog.Warn("analytics database unavailable, events disabled", "error", err)
		} else {
			defer db.Close()
			events = analytics.NewPostgresEventLogger(db.Pool)
		}
	}

	resolver := assets.NewResolver(mode.BaseURL(), time.Duration(cfg.Assets.TimeoutSeconds)*time.Second)

	server := api.New(api.Config{
		Records:  records,
		Report:   report,
		Labels:   table,
		Resolver: resolver,
		Events:   events,
		Mode:     mode,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "mode", mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
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
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
