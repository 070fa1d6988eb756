package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/config"
	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
	"github.com/emickson/mobile-action-bar-backend/internal/poller"
	"github.com/emickson/mobile-action-bar-backend/internal/repository"
)

type clientFlags struct {
	configFile string
	fromDB     bool
	relayURL   string
	relayMode  bool
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configFile, "config", "", "gateway config file (default GATEWAY_CONFIG_FILE)")
	cmd.Flags().BoolVar(&f.fromDB, "from-db", false, "read the gateway config from the settings table")
	cmd.Flags().StringVar(&f.relayURL, "relay-url", "", "relay base URL (default RELAY_URL)")
	cmd.Flags().BoolVar(&f.relayMode, "relay-mode", false, "route provider calls through the relay proxy")
}

// client builds a payment client from the persisted gateway selection. A
// missing selection yields a client that relies on the relay. retry is only
// set by commands that never create charges.
func (f *clientFlags) client(cfg *config.Config, logger *zap.Logger, retry bool) (*payment.Client, error) {
	gw, err := f.loadGateway(cfg, logger)
	if errors.Is(err, config.ErrNoGatewayConfig) {
		logger.Warn("no gateway configured, using the relay")
		gw, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	return payment.NewClient(gw,
		payment.WithRelayURL(utils.FirstNonEmpty(f.relayURL, cfg.Gateway.RelayURL)),
		payment.WithRelayMode(f.relayMode),
		payment.WithLogger(logger),
		payment.WithHTTPClient(gatewayHTTP(cfg.HTTP, retry)),
	), nil
}

func (f *clientFlags) loadGateway(cfg *config.Config, logger *zap.Logger) (*payment.GatewayConfig, error) {
	if !f.fromDB {
		return config.LoadGatewayConfig(utils.FirstNonEmpty(f.configFile, cfg.Gateway.File))
	}
	if !cfg.Database.Enabled() {
		return nil, errors.New("--from-db needs DB_NAME")
	}
	db, err := config.NewDatabase(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return repository.NewSettingRepository(db).GetGatewayConfig(config.GatewayConfigKey)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func chargeCmd() *cobra.Command {
	var (
		flags    clientFlags
		amount   string
		req      payment.PaymentRequest
		zip      string
		street   string
		number   string
		city     string
		state    string
		district string
	)

	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Create a PIX charge with the configured gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			req.Amount, err = decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			if street != "" || zip != "" {
				req.Customer.Address = &payment.Address{
					Street:       street,
					Number:       number,
					Neighborhood: district,
					City:         city,
					State:        state,
					ZipCode:      zip,
				}
			}

			client, err := flags.client(cfg, logger, false)
			if err != nil {
				return err
			}
			charge, err := client.CreateCharge(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), charge)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&amount, "amount", "", "amount in BRL, e.g. 49.90")
	cmd.Flags().StringVar(&req.Description, "description", "", "charge description")
	cmd.Flags().StringVar(&req.OrderID, "order-id", "", "merchant order id")
	cmd.Flags().StringVar(&req.Customer.Name, "name", "", "payer name")
	cmd.Flags().StringVar(&req.Customer.Email, "email", "", "payer email")
	cmd.Flags().StringVar(&req.Customer.Document, "document", "", "payer CPF/CNPJ")
	cmd.Flags().StringVar(&req.Customer.Phone, "phone", "", "payer phone")
	cmd.Flags().StringVar(&street, "street", "", "address street")
	cmd.Flags().StringVar(&number, "number", "", "address number")
	cmd.Flags().StringVar(&district, "district", "", "address neighborhood")
	cmd.Flags().StringVar(&city, "city", "", "address city")
	cmd.Flags().StringVar(&state, "state", "", "address state")
	cmd.Flags().StringVar(&zip, "zip", "", "address CEP")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func statusCmd() *cobra.Command {
	var (
		flags        clientFlags
		externalCode string
	)

	cmd := &cobra.Command{
		Use:   "status [transaction-id]",
		Short: "Check the status of a charge once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client, err := flags.client(cfg, logger, true)
			if err != nil {
				return err
			}
			status, err := client.CheckStatus(cmd.Context(), args[0], externalCode)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), status)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&externalCode, "external-code", "", "merchant reference of the charge")
	return cmd
}

func pollCmd() *cobra.Command {
	var (
		flags        clientFlags
		externalCode string
	)

	cmd := &cobra.Command{
		Use:   "poll [transaction-id]",
		Short: "Poll a charge until it settles, expires, or the schedule runs out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client, err := flags.client(cfg, logger, true)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			h := poller.New(client, poller.WithLogger(logger)).Poll(ctx, args[0], externalCode, func(st *payment.NormalizedStatus) {
				if err := printJSON(out, st); err != nil {
					logger.Warn("print status", zap.Error(err))
				}
			})

			reason := h.Wait()
			fmt.Fprintf(out, "stopped: %s\n", reason)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&externalCode, "external-code", "", "merchant reference of the charge")
	return cmd
}
