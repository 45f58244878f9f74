// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/expiry"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Postgres captures the database connection settings.
type Postgres struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// Redis captures the dashboard cache settings. An empty URL disables the
// cache.
type Redis struct {
	URL          string
	DashboardTTL time.Duration
}

// Kafka captures the audit event stream settings. Empty brokers disable the
// stream; events then go to the log sink only.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Scanner captures the expiry sweep settings.
type Scanner struct {
	Interval    time.Duration
	Concurrency int
}

// Config is the full service configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Scanner  Scanner

	ExpiryThresholds expiry.Thresholds
	AuditBufferSize  int
}

// FromEnv builds a Config from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          getenv("THIQAX_ADDR", ":8080"),
			JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     getenv("JWT_ISSUER", "thiqax"),
			JWTAudience:   getenv("JWT_AUDIENCE", "thiqax-api"),
		},
		Postgres: Postgres{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getint("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getint("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			DashboardTTL: getduration("DASHBOARD_CACHE_TTL", time.Minute),
		},
		Kafka: Kafka{
			Brokers: getlist("KAFKA_BROKERS"),
			Topic:   getenv("KAFKA_AUDIT_TOPIC", "thiqax.verification.events"),
		},
		Scanner: Scanner{
			Interval:    getduration("EXPIRY_SCAN_INTERVAL", time.Hour),
			Concurrency: getint("EXPIRY_SCAN_CONCURRENCY", 4),
		},
		ExpiryThresholds: expiry.Thresholds{
			Critical: getint("EXPIRY_CRITICAL_DAYS", expiry.DefaultCriticalThreshold),
			Warning:  getint("EXPIRY_WARNING_DAYS", expiry.DefaultWarningThreshold),
		},
		AuditBufferSize: getint("AUDIT_BUFFER_SIZE", 256),
	}
}

// Validate rejects configurations that cannot run.
func (c Config) Validate() error {
	if err := c.ExpiryThresholds.Validate(); err != nil {
		return err
	}
	if c.Scanner.Interval <= 0 {
		return dErrors.New(dErrors.CodeConfiguration, "scan interval must be positive")
	}
	if c.Scanner.Concurrency <= 0 {
		return dErrors.New(dErrors.CodeConfiguration, "scan concurrency must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return dErrors.New(dErrors.CodeConfiguration, "kafka topic is required when brokers are set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getlist(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
