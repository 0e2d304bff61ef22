package config

import (
	"os"
	"strings"
	"time"

	platformstrings "studiogate/pkg/platform/strings"
)

// Config captures process-level configuration. Values come from environment
// variables so main stays lean; empty backends mean "run on memory stores",
// which keeps local development dependency-free.
type Config struct {
	Addr string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Token    TokenConfig
}

// RedisConfig configures the optional Redis profile store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional Postgres stores.
type PostgresConfig struct {
	URL string
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// TokenConfig configures verification of provider-issued session tokens.
type TokenConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// FromEnv builds the configuration from environment variables.
func FromEnv() Config {
	return Config{
		Addr: envOr("STUDIOGATE_ADDR", ":8080"),
		Redis: RedisConfig{
			URL:          os.Getenv("STUDIOGATE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("STUDIOGATE_DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:    platformstrings.DedupeAndTrim(strings.Split(os.Getenv("STUDIOGATE_KAFKA_BROKERS"), ",")),
			AuditTopic: envOr("STUDIOGATE_AUDIT_TOPIC", "studiogate.audit.v1"),
		},
		Token: TokenConfig{
			// Development default; override in any deployed environment.
			SigningKey: envOr("STUDIOGATE_TOKEN_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     envOr("STUDIOGATE_TOKEN_ISSUER", "studiogate-dev"),
			Audience:   envOr("STUDIOGATE_TOKEN_AUDIENCE", "studiogate"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
