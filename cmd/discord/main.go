package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/keshon/account-market/internal/command/accounts"
	_ "github.com/keshon/account-market/internal/command/core"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/internal/discord"
	"github.com/keshon/account-market/internal/i18n"
	"github.com/keshon/account-market/internal/logging"
	"github.com/keshon/account-market/internal/market"
	"github.com/keshon/account-market/internal/profile"
	"github.com/keshon/account-market/internal/storage"
	"github.com/keshon/account-market/internal/telemetry"
)

const appName = "Account Market"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	logger.Info("Starting bot", "app", appName)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Discord bot exited cleanly")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	store, err := storage.Open(cfg.Storage.Path, metrics)
	if err != nil {
		return err
	}
	defer store.Close()

	messages, err := i18n.Load(cfg.Locale)
	if err != nil {
		return err
	}

	services := &command.Services{
		Market: market.New(store, market.Options{
			RoleID:         cfg.Market.PermissionsRoleID,
			RemovePassword: cfg.Market.RemovePassword,
			Logger:         logger,
		}),
		Profiles: profile.NewResolver(profile.Options{
			APIURL:    cfg.Profile.APIURL,
			AvatarURL: cfg.Profile.AvatarURL,
			Rate:      cfg.Profile.Rate,
			Timeout:   cfg.Profile.Timeout,
			Metrics:   metrics,
			Logger:    logger,
		}),
		Messages:   messages,
		Categories: cfg.Categories,
		Logger:     logger,
		Metrics:    metrics,
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := telemetry.Serve(ctx, cfg.Metrics.Addr, registry); err != nil {
				logger.Error("Metrics endpoint failed", "error", err)
			}
		}()
	}

	bot, err := discord.New(cfg.Discord, services, store, nil)
	if err != nil {
		return err
	}
	return bot.Run(ctx)
}
