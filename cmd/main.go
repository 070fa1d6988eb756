package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/config"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "checkout",
		Short:         "PIX checkout relay and gateway client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chargeCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(pollCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger for APP_ENV.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Server.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// gatewayHTTP builds the outbound client. Retries are only enabled for
// callers that never create charges.
func gatewayHTTP(cfg config.HTTPClientConfig, retry bool) *httpclient.Client {
	hc := httpclient.New().WithTimeout(cfg.Timeout)
	if retry && cfg.Retries > 0 {
		hc.WithRetry(cfg.Retries, cfg.RetryWait, cfg.RetryMaxWait)
	}
	return hc
}
