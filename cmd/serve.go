package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/config"
	cronpkg "github.com/emickson/mobile-action-bar-backend/internal/cron"
	"github.com/emickson/mobile-action-bar-backend/internal/middleware"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/telegram"
	"github.com/emickson/mobile-action-bar-backend/internal/relay"
	"github.com/emickson/mobile-action-bar-backend/internal/router"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout relay HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runServer(cfg, logger)
		},
	}
}

func runServer(cfg *config.Config, logger *zap.Logger) error {
	// --- Redis (optional; in-memory fallback) ---
	redisClient, err := store.Connect(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory status cache and webhook dedup", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	statusStore := store.New(redisClient, cfg.Relay.StatusTTL)
	deduper := middleware.NewWebhookDeduper(redisClient, cfg.Relay.DedupTTL)

	// --- Relay ---
	opts := []relay.Option{
		relay.WithLogger(logger),
		relay.WithHTTPClient(gatewayHTTP(cfg.HTTP, false)),
	}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		notifier, err := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.APIURL, logger)
		if err != nil {
			logger.Warn("Telegram notifier disabled", zap.Error(err))
		} else {
			opts = append(opts, relay.WithNotifier(notifier))
		}
	}
	svc := relay.NewService(relay.Config{
		PublicURL:       cfg.Relay.PublicURL,
		DefaultToken:    cfg.Relay.DefaultToken,
		OfferHash:       cfg.Relay.OfferHash,
		ProductHash:     cfg.Relay.ProductHash,
		AsaasBaseURL:    cfg.Relay.AsaasBaseURL,
		IronPayBaseURL:  cfg.Relay.IronPayBaseURL,
		TriboPayBaseURL: cfg.Relay.TriboPayBaseURL,
		ProxyHosts:      cfg.Relay.ProxyHosts,
	}, statusStore, opts...)
	if cfg.Relay.PublicURL == "" {
		logger.Warn("PUBLIC_URL is not set, gateways will not be given webhook URLs")
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true
	router.Setup(e, svc, logger, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
		Deduper:        deduper,
	})

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(statusStore, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	// --- Start Server ---
	addr := cfg.Server.Addr()
	go func() {
		logger.Info("Starting checkout relay", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	ctx := scheduler.Stop()
	<-ctx.Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
	return nil
}
