package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "JDMATCH_"
	EnvConfigFile = "JDMATCH_CONFIG"
)

// Load layers configuration, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by JDMATCH_CONFIG, if set
//  3. env vars with the JDMATCH_ prefix; "__" separates nested keys
//     (JDMATCH_DATABASE__HOST -> database.host)
func Load() (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.App.HTTPPort) == "" {
		problems = append(problems, "app.http_port must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.App.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, "app.log_level must be one of debug, info, warn, error")
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DBHost) == "" {
			problems = append(problems, "database.host is required for the postgres driver")
		}
		if strings.TrimSpace(c.Database.DBName) == "" {
			problems = append(problems, "database.name is required for the postgres driver")
		}
		if strings.TrimSpace(c.Database.DBUser) == "" {
			problems = append(problems, "database.user is required for the postgres driver")
		}
		if c.Database.PoolMinConns > c.Database.PoolMaxConns && c.Database.PoolMaxConns > 0 {
			problems = append(problems, "database.pool_min_conns must not exceed database.pool_max_conns")
		}
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	if c.LLM.MaxTokens <= 0 {
		problems = append(problems, "llm.max_tokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, "llm.temperature must be within [0, 2]")
	}
	if c.LLM.TopP < 0 || c.LLM.TopP > 1 {
		problems = append(problems, "llm.top_p must be within [0, 1]")
	}
	if c.Fetcher.MaxChars <= 0 {
		problems = append(problems, "fetcher.max_chars must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
