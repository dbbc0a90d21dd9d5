package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries everything the process needs that is not registry data.
// Values come from an optional YAML file, with environment variables taking
// precedence.
type Config struct {
	// APIPort is the HTTP API listener; 0 picks a random free port.
	APIPort int `yaml:"api_port"`
	// NotifyPort is the websocket notification listener.
	NotifyPort int `yaml:"notify_port"`
	// DatabaseDSN is a sqlite path or a postgres:// URL.
	DatabaseDSN string `yaml:"database_dsn"`
	// RedisAddr enables the Redis session cache when set.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	// DefaultSlippageBps overrides the built-in swap slippage default.
	DefaultSlippageBps int64 `yaml:"default_slippage_bps"`
	// RPCOverrides replaces a chain's registry endpoints.
	RPCOverrides map[int64][]string `yaml:"rpc_overrides"`
}

// Load reads the YAML file at path (when it exists) and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		NotifyPort:  8091,
		DatabaseDSN: defaultDatabasePath(),
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("TXENGINE_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TXENGINE_API_PORT: %w", err)
		}
		cfg.APIPort = port
	}
	if v := os.Getenv("TXENGINE_NOTIFY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TXENGINE_NOTIFY_PORT: %w", err)
		}
		cfg.NotifyPort = port
	}
	if v := os.Getenv("TXENGINE_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("TXENGINE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("TXENGINE_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("TXENGINE_DEFAULT_SLIPPAGE_BPS"); v != "" {
		bps, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TXENGINE_DEFAULT_SLIPPAGE_BPS: %w", err)
		}
		cfg.DefaultSlippageBps = bps
	}

	return cfg, nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "txengine.db"
	}
	return home + "/txengine.db"
}
