package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GREENWELL_SERVER_PORT.
const EnvPrefix = "GREENWELL"

type Config struct {
	Server     ServerConfig     `mapstructure:"server" envconfig:"SERVER"`
	Log        LogConfig        `mapstructure:"log" envconfig:"LOG"`
	Session    SessionConfig    `mapstructure:"session" envconfig:"SESSION"`
	Redis      RedisConfig      `mapstructure:"redis" envconfig:"REDIS"`
	Booking    BookingConfig    `mapstructure:"booking" envconfig:"BOOKING"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" envconfig:"RATE_LIMIT"`
	CORS       CORSConfig       `mapstructure:"cors" envconfig:"CORS"`
	Monitoring MonitoringConfig `mapstructure:"monitoring" envconfig:"MONITORING"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" envconfig:"PORT"`
	Mode            string        `mapstructure:"mode" envconfig:"MODE"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" envconfig:"MAX_BODY_BYTES"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"LEVEL"`
	Format string `mapstructure:"format" envconfig:"FORMAT"`
}

type SessionConfig struct {
	Driver          string        `mapstructure:"driver" envconfig:"DRIVER"`
	TTL             time.Duration `mapstructure:"ttl" envconfig:"TTL"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" envconfig:"CLEANUP_INTERVAL"`
	CookieName      string        `mapstructure:"cookie_name" envconfig:"COOKIE_NAME"`
	Secure          bool          `mapstructure:"secure" envconfig:"SECURE"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"URL"`
	MaxRetries   int           `mapstructure:"max_retries" envconfig:"MAX_RETRIES"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" envconfig:"RETRY_BACKOFF"`
	PoolSize     int           `mapstructure:"pool_size" envconfig:"POOL_SIZE"`
	MinIdleConns int           `mapstructure:"min_idle_conns" envconfig:"MIN_IDLE_CONNS"`
}

type BookingConfig struct {
	SubmitDelay time.Duration `mapstructure:"submit_delay" envconfig:"SUBMIT_DELAY"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" envconfig:"ENABLED"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Burst             int     `mapstructure:"burst" envconfig:"BURST"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled" envconfig:"PROMETHEUS_ENABLED"`
	MetricsPath       string `mapstructure:"metrics_path" envconfig:"METRICS_PATH"`
}

// Session drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 64<<10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("session.driver", DriverMemory)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.cleanup_interval", 5*time.Minute)
	v.SetDefault("session.cookie_name", "greenwell_session")
	v.SetDefault("session.secure", false)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("booking.submit_delay", 900*time.Millisecond)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("monitoring.prometheus_enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
}

// Load reads configuration in increasing precedence: defaults, config.yml
// (or the file at path), a local .env file, then GREENWELL_* variables.
// A missing config.yml is not an error unless path names it explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.Session.Driver = strings.ToLower(cfg.Session.Driver)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Session.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis url is required for the redis session driver")
		}
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if c.Booking.SubmitDelay < 0 {
		return fmt.Errorf("booking submit delay cannot be negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit needs positive requests_per_second and burst")
	}
	return nil
}
