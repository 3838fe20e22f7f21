package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	SessionKey      string
	SessionTTL      time.Duration
	CookieSecure    bool
	ContractDir     string
	AdminPassword   string
	ServicePassword string
}

// PostgresConfig holds connection settings for the badge database.
// An empty DSN means the in-memory stores are used instead.
type PostgresConfig struct {
	DSN string
}

// RedisConfig holds connection settings for the session store.
// An empty URL means sessions are kept in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the audit event publisher settings.
// Empty Brokers disables Kafka publishing; events still reach the audit store.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// Config aggregates all runtime configuration for the badge backend.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("GATEPASS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	sessionKey := os.Getenv("SESSION_SIGNING_KEY")
	if sessionKey == "" {
		// Use a default for development - should be overridden in production
		sessionKey = "dev-secret-key-change-in-production"
	}

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			sessionTTL = time.Duration(hours) * time.Hour
		}
	}

	contractDir := os.Getenv("CONTRACT_DIR")
	if contractDir == "" {
		contractDir = "uploads/contracts"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	auditTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "gatepass.audit.badges"
	}

	return Config{
		Server: Server{
			Addr:            addr,
			SessionKey:      sessionKey,
			SessionTTL:      sessionTTL,
			CookieSecure:    os.Getenv("COOKIE_SECURE") == "true",
			ContractDir:     contractDir,
			AdminPassword:   envOr("ADMIN_PASSWORD", "AdminPass2025@@"),
			ServicePassword: envOr("SERVICE_PASSWORD", "ServicesPass2025@@"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    brokers,
			AuditTopic: auditTopic,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
