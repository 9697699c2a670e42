// Package config defines service configuration and its defaults.
package config

import (
	"strings"
	"time"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	LLM      LLMConfig      `koanf:"llm"`
	Fetcher  FetcherConfig  `koanf:"fetcher"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"env"`
	HTTPPort    string `koanf:"http_port"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver     string `koanf:"driver"`
	DBHost     string `koanf:"host"`
	DBPort     string `koanf:"port"`
	DBName     string `koanf:"name"`
	DBUser     string `koanf:"user"`
	DBPassword string `koanf:"password"`
	DBSSLMode  string `koanf:"sslmode"`

	ConnectTimeout        time.Duration `koanf:"connect_timeout"`
	PoolMaxConns          int32         `koanf:"pool_max_conns"`
	PoolMinConns          int32         `koanf:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `koanf:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `koanf:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `koanf:"pool_health_check_period"`

	// AutoMigrate applies embedded migrations at startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// RedisConfig configures the stats cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	StatsTTL time.Duration `koanf:"stats_ttl"`
}

// JWTConfig enables bearer verification when AccessSecret is set.
type JWTConfig struct {
	AccessSecret string `koanf:"access_secret"`
	// Issuer, when set, must match the token's iss claim.
	Issuer string `koanf:"issuer"`
}

func (c JWTConfig) Enabled() bool {
	return c.AccessSecret != ""
}

type LLMConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	Temperature float32       `koanf:"temperature"`
	TopP        float32       `koanf:"top_p"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
}

func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type FetcherConfig struct {
	UserAgent string        `koanf:"user_agent"`
	MaxChars  int           `koanf:"max_chars"`
	Timeout   time.Duration `koanf:"timeout"`
	// Headless enables the chromedp fallback for script-rendered pages.
	Headless bool `koanf:"headless"`
	// AllowPrivateHosts lets URLs reach loopback, private and link-local
	// addresses. Off outside local development.
	AllowPrivateHosts bool `koanf:"allow_private_hosts"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		App: AppConfig{
			Name:            "jdmatch",
			Environment:     "development",
			HTTPPort:        "8080",
			LogLevel:        "info",
			LogFormat:       "text",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:                DriverPostgres,
			DBHost:                "localhost",
			DBPort:                "5432",
			DBName:                "jdmatch",
			DBUser:                "postgres",
			DBSSLMode:             "disable",
			ConnectTimeout:        5 * time.Second,
			PoolMaxConns:          10,
			PoolMinConns:          1,
			PoolMaxConnLifetime:   time.Hour,
			PoolMaxConnIdleTime:   30 * time.Minute,
			PoolHealthCheckPeriod: time.Minute,
			AutoMigrate:           true,
		},
		Redis: RedisConfig{
			StatsTTL: 5 * time.Minute,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "openai/gpt-oss-120b",
			Temperature: 0.1,
			TopP:        0.9,
			MaxTokens:   4096,
			Timeout:     60 * time.Second,
		},
		Fetcher: FetcherConfig{
			UserAgent: "Mozilla/5.0 (compatible; jdmatch/1.0)",
			MaxChars:  20000,
			Timeout:   20 * time.Second,
		},
	}
}
