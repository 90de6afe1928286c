package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ticketdesk/internal/database"
	"ticketdesk/internal/external"
	"ticketdesk/internal/messaging"
	"ticketdesk/internal/snapshot"
	"ticketdesk/internal/wizard"

	"github.com/joho/godotenv"
)

// Config holds the gateway configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	CORSOrigins    []string

	// Performance monitoring
	PprofEnabled bool
	PprofPort    string

	// Wizard sessions
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// Shared secret used to verify payment tracking webhooks
	PaymentWebhookSecret string

	Links         wizard.Links
	Platform      external.PlatformConfig
	Snapshot      snapshot.ValkeyConfig
	Database      database.Config
	NATS          messaging.Config
	Elasticsearch ElasticsearchConfig
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),

		PprofEnabled: getEnvBool("PPROF_ENABLED", false),
		PprofPort:    getEnv("PPROF_PORT", "6060"),

		SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,
		SessionSweepInterval: time.Duration(getEnvInt("SESSION_SWEEP_SEC", 30)) * time.Second,

		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),

		Links: wizard.Links{
			SizeChartURL: getEnv("SIZE_CHART_URL", ""),
			TermsURL:     getEnv("TERMS_URL", ""),
			PublicURL:    strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8081"), "/"),
		},

		Platform: external.PlatformConfig{
			BaseURL: strings.TrimRight(getEnv("PLATFORM_API_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(getEnvInt("PLATFORM_TIMEOUT_SEC", 30)) * time.Second,
		},

		Snapshot: snapshot.ValkeyConfig{
			Enabled:  getEnvBool("VALKEY_ENABLED", false),
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("SNAPSHOT_TTL_MIN", 24*60)) * time.Minute,
		},

		Database: database.Config{
			Enabled:            getEnvBool("DB_ENABLED", false),
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "ticketdesk"),
			Password:           getEnv("DB_PASSWORD", "ticketdesk"),
			DBName:             getEnv("DB_NAME", "ticketdesk"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			Enabled:   getEnvBool("NATS_ENABLED", false),
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "ticketdesk"),
			ClientID:  getEnv("NATS_CLIENT_ID", "ticketdesk-api"),
		},

		Elasticsearch: LoadElasticsearchConfig(),
	}
}

// getEnv returns the environment value or the default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment value or the default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
