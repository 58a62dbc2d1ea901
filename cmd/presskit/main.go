package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nordvang/presskit/internal/app"
	"github.com/nordvang/presskit/internal/config"
	"github.com/nordvang/presskit/internal/metrics"
	"github.com/nordvang/presskit/internal/server/httpserver"
	"github.com/nordvang/presskit/internal/version"
	"github.com/nordvang/presskit/internal/views"
	"github.com/nordvang/presskit/internal/warm"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"presskit.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		NoWatch bool `help:"Disable configuration file watching"`
	} `cmd:"" help:"Serve the site and the admin endpoints"`

	Check struct{} `cmd:"" help:"Validate the configuration and ping the WordPress API"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Warm struct{} `cmd:"" help:"Run one cache warm pass and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "serve":
		cfg := mustLoadConfig()
		if err := runServe(cfg, !CLI.Serve.NoWatch); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "check":
		cfg := mustLoadConfig()
		if err := runCheck(cfg); err != nil {
			slog.Error("Check failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "warm":
		cfg := mustLoadConfig()
		if err := runWarm(cfg); err != nil {
			slog.Error("Warm failed", "error", err)
			os.Exit(1)
		}
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !CLI.Verbose {
		applyLogLevel(cfg.Logging.Level)
	}
	return cfg
}

// applyLogLevel resets the default logger to the configured level. The
// --verbose flag wins over the config file.
func applyLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l})))
}

func runServe(cfg *config.Config, watch bool) error {
	slog.Info("Starting presskit",
		"version", version.Version,
		"wordpress", cfg.WordPress.BaseURL,
		"site_port", cfg.Server.SitePort,
		"admin_port", cfg.Server.AdminPort)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	a, err := app.New(cfg, recorder)
	if err != nil {
		return fmt.Errorf("failed to build application state: %w", err)
	}
	v, err := views.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(a, httpserver.Options{Views: v, Recorder: recorder, Registry: registry})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	var warmer *warm.Warmer
	if cfg.Warm.Enabled {
		warmer, err = warm.NewWarmer(a)
		if err != nil {
			return fmt.Errorf("failed to create cache warmer: %w", err)
		}
		if err := warmer.Start(cfg.Warm.Interval); err != nil {
			return fmt.Errorf("failed to start cache warmer: %w", err)
		}
	}

	if watch {
		watcher, err := config.NewWatcher(CLI.Config, func(next *config.Config) {
			if err := a.ApplyConfig(next); err != nil {
				slog.Error("Failed to apply reloaded configuration", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
		defer watcher.Stop()
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping...")

	if warmer != nil {
		if err := warmer.Stop(); err != nil {
			slog.Warn("Cache warmer shutdown failed", "error", err)
		}
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}

func runCheck(cfg *config.Config) error {
	a, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.Ping(ctx); err != nil {
		return fmt.Errorf("WordPress API unreachable at %s: %w", cfg.WordPress.BaseURL, err)
	}
	slog.Info("Configuration valid, WordPress API reachable",
		"wordpress", cfg.WordPress.BaseURL,
		"post_types", len(cfg.Site.PostTypes))
	return nil
}

func runWarm(cfg *config.Config) error {
	a, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	w, err := warm.NewWarmer(a)
	if err != nil {
		return err
	}
	w.Run()

	stats := a.CacheStats()
	slog.Info("Warm pass complete", "cached_entries", stats.Entries)
	return nil
}
