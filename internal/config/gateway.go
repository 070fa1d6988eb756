package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
)

// GatewayConfigKey is the name the gateway blob is stored under, both as the
// top-level key of the config file and as the settings row name.
const GatewayConfigKey = "gateway_config"

// ErrNoGatewayConfig means no gateway has been configured yet.
var ErrNoGatewayConfig = errors.New("gateway config not found")

// LoadGatewayConfig reads the gateway blob from a JSON or YAML file whose
// top-level key is gateway_config.
func LoadGatewayConfig(path string) (*payment.GatewayConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read gateway config %s: %w", path, err)
	}
	if !v.IsSet(GatewayConfigKey) {
		return nil, ErrNoGatewayConfig
	}

	var cfg payment.GatewayConfig
	if err := v.UnmarshalKey(GatewayConfigKey, &cfg); err != nil {
		return nil, fmt.Errorf("decode gateway config: %w", err)
	}
	return normalizeGateway(&cfg), nil
}

// ParseGatewayConfig decodes a bare JSON gateway blob, as stored in the
// settings table.
func ParseGatewayConfig(raw []byte) (*payment.GatewayConfig, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrNoGatewayConfig
	}
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("parse gateway config: %w", err)
	}

	var cfg payment.GatewayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode gateway config: %w", err)
	}
	return normalizeGateway(&cfg), nil
}

func normalizeGateway(cfg *payment.GatewayConfig) *payment.GatewayConfig {
	cfg.Provider = payment.ParseProvider(string(cfg.Provider))
	if cfg.Environment != payment.EnvSandbox {
		cfg.Environment = payment.EnvProduction
	}
	return cfg
}
