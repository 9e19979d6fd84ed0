package config

import (
	"time"

	"github.com/SFitz911/Carrier-Broker-Saas/pkg/config"
)

// Config holds all service configuration, loaded from the environment once at
// startup and passed by injection. Unset credentials select fallback behavior
// (in-memory store, synthetic verification, log mailer) rather than a startup
// failure, so the service runs with zero external secrets.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// RateLimitRPS of 0 disables per-client limiting.
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// DatabaseURL selects the postgres repositories when set; otherwise the
	// in-memory store is the system of record.
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisAddr enables the company profile cache when set.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// FMCSAAPIKey selects the live registry client when set; otherwise
	// verification returns synthetic descriptors.
	FMCSAAPIKey  string        `env:"FMCSA_API_KEY"`
	FMCSAAPIURL  string        `env:"FMCSA_API_URL" envDefault:"https://mobile.fmcsa.dot.gov/qc/services/carriers"`
	FMCSATimeout time.Duration `env:"FMCSA_TIMEOUT" envDefault:"10s"`

	// SMTPHost selects the live mailer when set; otherwise messages go to
	// the structured log.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@carrierboard.local"`

	// KafkaBrokers enables review event publishing when set.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UsePostgres reports whether a persistence connection string is configured.
func (c *Config) UsePostgres() bool { return c.DatabaseURL != "" }

// UseRedis reports whether the profile cache is configured.
func (c *Config) UseRedis() bool { return c.RedisAddr != "" }

// UseLiveVerification reports whether a registry API credential is configured.
func (c *Config) UseLiveVerification() bool { return c.FMCSAAPIKey != "" }

// UseSMTP reports whether an outbound mail transport is configured.
func (c *Config) UseSMTP() bool { return c.SMTPHost != "" }

// UseKafka reports whether event publishing is configured.
func (c *Config) UseKafka() bool { return len(c.KafkaBrokers) > 0 }
