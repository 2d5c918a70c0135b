package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Redis        RedisConfig        `toml:"redis"`
	Availability AvailabilityConfig `toml:"availability"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"SCHED_HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"SCHED_HTTP_READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"SCHED_HTTP_WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"SCHED_HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SCHED_HTTP_SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"SCHED_DB_HOST"`
	Port            int    `toml:"port" env:"SCHED_DB_PORT"`
	User            string `toml:"user" env:"SCHED_DB_USER"`
	Password        string `toml:"password" env:"SCHED_DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"SCHED_DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"SCHED_DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"SCHED_DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"SCHED_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"SCHED_DB_CONN_MAX_LIFETIME"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" env:"SCHED_DB_AUTO_MIGRATE"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" env:"SCHED_LOG_FILE"` // пусто - только stdout
	Level string `toml:"level" env:"SCHED_LOG_LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"SCHED_METRICS_ENABLED"`
	Path        string `toml:"path" env:"SCHED_METRICS_PATH"`
	ServiceName string `toml:"service_name" env:"SCHED_METRICS_SERVICE_NAME"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled" env:"SCHED_REDIS_ENABLED"`
	Addr     string `toml:"addr" env:"SCHED_REDIS_ADDR"`
	Password string `toml:"password" env:"SCHED_REDIS_PASSWORD"`
	DB       int    `toml:"db" env:"SCHED_REDIS_DB"`
	HoursTTL int    `toml:"hours_ttl" env:"SCHED_REDIS_HOURS_TTL"` // секунды
}

type AvailabilityConfig struct {
	// DefaultTimezone используется для бизнесов без своего часового пояса
	DefaultTimezone string `toml:"default_timezone" env:"SCHED_DEFAULT_TIMEZONE"`
}

// RateLimitConfig лимит публичных запросов на один IP
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled" env:"SCHED_RATE_LIMIT_ENABLED"`
	RPS     float64 `toml:"rps" env:"SCHED_RATE_LIMIT_RPS"`
	Burst   int     `toml:"burst" env:"SCHED_RATE_LIMIT_BURST"`
}

// Load читает TOML файл, затем применяет переменные окружения SCHED_*.
// Отсутствующий файл не ошибка: конфигурация целиком может прийти из окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения для локального запуска
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "scheduling",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			HoursTTL: 300,
		},
		Availability: AvailabilityConfig{
			DefaultTimezone: "UTC",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     10,
			Burst:   20,
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("%w: database pool sizes must not be negative", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
		}
		if c.Redis.HoursTTL <= 0 {
			return fmt.Errorf("%w: redis.hours_ttl must be positive", ErrInvalidConfig)
		}
	}
	if _, err := time.LoadLocation(c.Availability.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: availability.default_timezone: %v", ErrInvalidConfig, err)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	return nil
}
