package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Relay    RelayConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Gateway  GatewayFileConfig
	HTTP     HTTPClientConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string // "development", "production"
	AllowedOrigins []string
	StaticDir      string
}

// RelayConfig is what the relay needs to reach gateways on a merchant's behalf.
type RelayConfig struct {
	PublicURL       string
	DefaultToken    string
	OfferHash       string
	ProductHash     string
	AsaasBaseURL    string
	IronPayBaseURL  string
	TriboPayBaseURL string
	ProxyHosts      []string
	StatusTTL       time.Duration
	DedupTTL        time.Duration
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type TelegramConfig struct {
	Token  string
	ChatID int64
	APIURL string
}

// HTTPClientConfig tunes outbound gateway calls. Retries only apply to
// status lookups.
type HTTPClientConfig struct {
	Timeout      time.Duration
	Retries      int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
}

// GatewayFileConfig tells the CLI where the persisted gateway selection lives.
type GatewayFileConfig struct {
	File     string
	RelayURL string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("APP_HOST"),
			Port:           v.GetInt("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			StaticDir:      v.GetString("STATIC_DIR"),
		},
		Relay: RelayConfig{
			PublicURL:       v.GetString("PUBLIC_URL"),
			DefaultToken:    v.GetString("GATEWAY_TOKEN"),
			OfferHash:       v.GetString("IRONPAY_OFFER_HASH"),
			ProductHash:     v.GetString("IRONPAY_PRODUCT_HASH"),
			AsaasBaseURL:    v.GetString("ASAAS_BASE_URL"),
			IronPayBaseURL:  v.GetString("IRONPAY_BASE_URL"),
			TriboPayBaseURL: v.GetString("TRIBOPAY_BASE_URL"),
			ProxyHosts:      splitList(v.GetString("PROXY_HOSTS")),
			StatusTTL:       duration(v, "STATUS_TTL", 2*time.Hour),
			DedupTTL:        duration(v, "WEBHOOK_DEDUP_TTL", 10*time.Minute),
		},
		Database: DatabaseConfig{
			Host:    v.GetString("DB_HOST"),
			Port:    v.GetString("DB_PORT"),
			Name:    v.GetString("DB_NAME"),
			User:    v.GetString("DB_USER"),
			Pass:    v.GetString("DB_PASS"),
			Charset: v.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			Pass: v.GetString("REDIS_PASS"),
			DB:   v.GetInt("REDIS_DB"),
		},
		Telegram: TelegramConfig{
			Token:  v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID: v.GetInt64("TELEGRAM_CHAT_ID"),
			APIURL: v.GetString("TELEGRAM_API_URL"),
		},
		Gateway: GatewayFileConfig{
			File:     v.GetString("GATEWAY_CONFIG_FILE"),
			RelayURL: v.GetString("RELAY_URL"),
		},
		HTTP: HTTPClientConfig{
			Timeout:      duration(v, "HTTP_TIMEOUT", 30*time.Second),
			Retries:      v.GetInt("HTTP_RETRIES"),
			RetryWait:    duration(v, "HTTP_RETRY_WAIT", 500*time.Millisecond),
			RetryMaxWait: duration(v, "HTTP_RETRY_MAX_WAIT", 5*time.Second),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("IRONPAY_OFFER_HASH", "7becb")
	v.SetDefault("IRONPAY_PRODUCT_HASH", "7tjdfkshdv")
	v.SetDefault("STATUS_TTL", "2h")
	v.SetDefault("WEBHOOK_DEDUP_TTL", "10m")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_CHARSET", "utf8mb4")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GATEWAY_CONFIG_FILE", "gateway.json")
	v.SetDefault("RELAY_URL", "http://localhost:8080")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("HTTP_RETRIES", 0)
	v.SetDefault("HTTP_RETRY_WAIT", "500ms")
	v.SetDefault("HTTP_RETRY_MAX_WAIT", "5s")
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// IsDevelopment reports whether APP_ENV selects development logging.
func (s ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(s.Env, "development")
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}

// Enabled reports whether a database name was configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Name != ""
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
