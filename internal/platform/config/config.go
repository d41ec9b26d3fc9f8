package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process level configuration.
type Server struct {
	Addr       string `env:"SOULMINT_ADDR" envDefault:":8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"json"`
	AdminToken string `env:"ADMIN_TOKEN"`
	// AdminTokenHash is a bcrypt hash of the admin token; it wins over AdminToken.
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH"`

	JWT      JWTConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Issuance IssuanceConfig
	Tracing  TracingConfig
}

// JWTConfig configures account bearer tokens.
type JWTConfig struct {
	// Use a default for development - override in production
	SigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"soulmint"`
	Audience   string        `env:"JWT_AUDIENCE" envDefault:"soulmint-api"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"1h"`
}

// DatabaseConfig selects Postgres. An empty URL keeps registries in memory.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig selects distributed batch locks. An empty URL uses in-process locks.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig selects the outbox sink. No brokers means events are logged.
type KafkaConfig struct {
	Brokers           []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic             string        `env:"KAFKA_TOPIC" envDefault:"soulmint.batch-events"`
	Partitions        int32         `env:"KAFKA_PARTITIONS" envDefault:"3"`
	ReplicationFactor int16         `env:"KAFKA_REPLICATION_FACTOR" envDefault:"1"`
	PollInterval      time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	BatchSize         int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
}

// IssuanceConfig tunes the issuance workflow.
type IssuanceConfig struct {
	LockTTL        time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	VoucherChainID int64         `env:"VOUCHER_CHAIN_ID" envDefault:"1"`
}

// TracingConfig enables OTLP span export. An empty endpoint keeps the no-op provider.
type TracingConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"soulmint"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot run with.
func (c Server) Validate() error {
	if c.JWT.SigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY must not be empty")
	}
	if c.Issuance.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}
	if c.Issuance.VoucherChainID <= 0 {
		return fmt.Errorf("VOUCHER_CHAIN_ID must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}
