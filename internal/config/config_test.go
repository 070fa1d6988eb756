package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.True(t, cfg.Server.IsDevelopment())
	require.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	require.Equal(t, "7becb", cfg.Relay.OfferHash)
	require.Equal(t, "7tjdfkshdv", cfg.Relay.ProductHash)
	require.Equal(t, 2*time.Hour, cfg.Relay.StatusTTL)
	require.Equal(t, 10*time.Minute, cfg.Relay.DedupTTL)
	require.Equal(t, "http://localhost:8080", cfg.Gateway.RelayURL)
	require.False(t, cfg.Database.Enabled())
	require.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	require.Zero(t, cfg.HTTP.Retries)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("GATEWAY_TOKEN", "$aact_x")
	t.Setenv("STATUS_TTL", "garbage")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001234")
	t.Setenv("DB_NAME", "checkout")
	t.Setenv("HTTP_TIMEOUT", "8s")
	t.Setenv("HTTP_RETRIES", "2")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.False(t, cfg.Server.IsDevelopment())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	require.Equal(t, "$aact_x", cfg.Relay.DefaultToken)
	require.Equal(t, 2*time.Hour, cfg.Relay.StatusTTL)
	require.Equal(t, int64(-1001234), cfg.Telegram.ChatID)
	require.True(t, cfg.Database.Enabled())
	require.Contains(t, cfg.Database.DSN(), "/checkout?charset=utf8mb4")
	require.Equal(t, 8*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, 2, cfg.HTTP.Retries)
	require.Equal(t, 500*time.Millisecond, cfg.HTTP.RetryWait)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadGatewayConfigJSON(t *testing.T) {
	path := writeFile(t, "gateway.json", `{
		"gateway_config": {
			"provider": "Vegas",
			"environment": "sandbox",
			"apiKey": "vk_123",
			"webhookUrl": "https://shop.example/hook",
			"offerHash": "abc"
		}
	}`)

	cfg, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	require.Equal(t, payment.ProviderVegas, cfg.Provider)
	require.Equal(t, payment.EnvSandbox, cfg.Environment)
	require.Equal(t, "vk_123", cfg.APIKey)
	require.Equal(t, "https://shop.example/hook", cfg.WebhookURL)
	require.Equal(t, "abc", cfg.OfferHash)
}

func TestLoadGatewayConfigYAML(t *testing.T) {
	path := writeFile(t, "gateway.yaml", `
gateway_config:
  provider: ironpay
  customUrl: https://relay.example
  apiKey: key
`)

	cfg, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	require.Equal(t, payment.ProviderCustom, cfg.Provider, "unknown providers fall back to custom")
	require.Equal(t, payment.EnvProduction, cfg.Environment)
	require.Equal(t, "https://relay.example", cfg.CustomURL)
}

func TestLoadGatewayConfigMissing(t *testing.T) {
	path := writeFile(t, "gateway.json", `{"other": {}}`)
	_, err := LoadGatewayConfig(path)
	require.ErrorIs(t, err, ErrNoGatewayConfig)

	_, err = LoadGatewayConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestParseGatewayConfig(t *testing.T) {
	cfg, err := ParseGatewayConfig([]byte(`{"provider":"gerencianet","clientId":"id","clientSecret":"secret","pixKey":"k@example.com"}`))
	require.NoError(t, err)
	require.Equal(t, payment.ProviderGerencianet, cfg.Provider)
	require.Equal(t, "id", cfg.ClientID)
	require.Equal(t, "secret", cfg.ClientSecret)
	require.Equal(t, "k@example.com", cfg.PixKey)

	_, err = ParseGatewayConfig([]byte("  "))
	require.ErrorIs(t, err, ErrNoGatewayConfig)

	_, err = ParseGatewayConfig([]byte("{not json"))
	require.Error(t, err)
}
