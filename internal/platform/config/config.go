package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Every field has a development
// default so the server starts with an empty environment, using in-memory
// stores and a sandbox payment gateway.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	JWTSigningKey   string
	LogLevel        string
	LogFormat       string // text|json

	DatabaseURL string
	Postgres    PostgresConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Graph       GraphConfig

	Gateway    GatewayConfig
	Blockchain BlockchainConfig
	Rates      RatesConfig

	CatalogPath     string
	MonitorInterval time.Duration
	LockTimeout     time.Duration
	Breaker         BreakerConfig
	RateLimit       RateLimitConfig
}

type PostgresConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// RedisConfig is optional; an empty URL keeps locking in-process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig is optional; without brokers audit events stay in the outbox
// table (or in memory when no database is configured).
type KafkaConfig struct {
	Brokers      []string
	TopicPrefix  string
	RelayBatch   int
	RelayPeriod  time.Duration
	CreateTopics bool
}

// GraphConfig enables the optional money-flow projection into Neo4j.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// GatewayConfig points at the payment processor. An empty URL selects the
// sandbox gateway.
type GatewayConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type BlockchainConfig struct {
	URL     string
	Timeout time.Duration
}

// RatesConfig selects the exchange-rate source. With no URL the static table
// from the catalogue is used.
type RatesConfig struct {
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// RateLimitConfig overrides the per-user request budgets. Zero keeps the
// built-in default for that class.
type RateLimitConfig struct {
	Disabled  bool
	UserRead  int
	UserWrite int
	UserMoney int
	Window    time.Duration
}

type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Cooldown         time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:          valueOrDefault("AFRICONNECT_ADDR", ":8080"),
		JWTSigningKey: valueOrDefault("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		LogLevel:      valueOrDefault("LOG_LEVEL", "info"),
		LogFormat:     valueOrDefault("LOG_FORMAT", "text"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Postgres: PostgresConfig{
			MaxConns: int32(parseIntWithDefault("POSTGRES_MAX_CONNS", 10)),
			MinConns: int32(parseIntWithDefault("POSTGRES_MIN_CONNS", 1)),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     parseIntWithDefault("REDIS_POOL_SIZE", 10),
			MinIdleConns: parseIntWithDefault("REDIS_MIN_IDLE_CONNS", 2),
		},
		Kafka: KafkaConfig{
			Brokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
			TopicPrefix:  valueOrDefault("KAFKA_TOPIC_PREFIX", "africonnect"),
			RelayBatch:   parseIntWithDefault("OUTBOX_RELAY_BATCH", 100),
			CreateTopics: parseBoolWithDefault("KAFKA_CREATE_TOPICS", true),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       os.Getenv("GRAPH_DATABASE"),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", 10),
		},
		Gateway: GatewayConfig{
			URL:    os.Getenv("PAYMENT_GATEWAY_URL"),
			APIKey: os.Getenv("PAYMENT_GATEWAY_API_KEY"),
		},
		Blockchain: BlockchainConfig{
			URL: os.Getenv("BLOCKCHAIN_URL"),
		},
		Rates: RatesConfig{
			URL: os.Getenv("RATES_API_URL"),
		},
		CatalogPath: os.Getenv("CATALOG_PATH"),
		Breaker: BreakerConfig{
			FailureThreshold: parseIntWithDefault("BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: parseIntWithDefault("BREAKER_SUCCESS_THRESHOLD", 2),
		},
		RateLimit: RateLimitConfig{
			Disabled:  parseBoolWithDefault("RATE_LIMIT_DISABLED", false),
			UserRead:  parseIntWithDefault("RATE_LIMIT_USER_READ", 0),
			UserWrite: parseIntWithDefault("RATE_LIMIT_USER_WRITE", 0),
			UserMoney: parseIntWithDefault("RATE_LIMIT_USER_MONEY", 0),
		},
	}

	durations := []struct {
		key      string
		dst      *time.Duration
		fallback time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout, 10 * time.Second},
		{"POSTGRES_MAX_CONN_LIFETIME", &cfg.Postgres.MaxConnLifetime, time.Hour},
		{"REDIS_DIAL_TIMEOUT", &cfg.Redis.DialTimeout, 5 * time.Second},
		{"REDIS_READ_TIMEOUT", &cfg.Redis.ReadTimeout, 3 * time.Second},
		{"REDIS_WRITE_TIMEOUT", &cfg.Redis.WriteTimeout, 3 * time.Second},
		{"OUTBOX_RELAY_PERIOD", &cfg.Kafka.RelayPeriod, 2 * time.Second},
		{"PAYMENT_GATEWAY_TIMEOUT", &cfg.Gateway.Timeout, 10 * time.Second},
		{"BLOCKCHAIN_TIMEOUT", &cfg.Blockchain.Timeout, 10 * time.Second},
		{"RATES_API_TIMEOUT", &cfg.Rates.Timeout, 3 * time.Second},
		{"RATES_CACHE_TTL", &cfg.Rates.CacheTTL, 10 * time.Minute},
		{"MONITOR_INTERVAL", &cfg.MonitorInterval, 24 * time.Hour},
		{"LOCK_TIMEOUT", &cfg.LockTimeout, 5 * time.Second},
		{"BREAKER_COOLDOWN", &cfg.Breaker.Cooldown, 30 * time.Second},
		{"RATE_LIMIT_WINDOW", &cfg.RateLimit.Window, time.Minute},
	}
	for _, d := range durations {
		v, err := parseDurationWithDefault(d.key, d.fallback)
		if err != nil {
			return Server{}, err
		}
		*d.dst = v
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
