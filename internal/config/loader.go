package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/nominationd/internal/logging"
)

const envPrefix = "NOMINATIOND_"

// Load loads configuration from the given YAML file (if it exists), then
// overrides with environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (NOMINATIOND_ORACLE_API_KEY, NOMINATIOND_SCAN_CONTRACTS_DIR, ...)
//  2. YAML config file
//  3. Defaults
//
// Environment variables map to config keys by stripping the prefix,
// lowercasing, and splitting on the first underscore:
//
//	NOMINATIOND_SERVER_PORT        -> server.port
//	NOMINATIOND_ORACLE_API_KEY     -> oracle.api_key
//	NOMINATIOND_SCAN_CONTRACTS_DIR -> scan.contracts_dir
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			f, err := os.Open(configPath)
			if err != nil {
				return nil, fmt.Errorf("opening config file: %w", err)
			}
			defer f.Close()

			content, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// NOMINATIOND_SECTION_FIELD_NAME -> section.field_name
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Fields == nil {
		cfg.Logging.Fields = logging.NewDefaultConfig().Fields
	}

	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = ProviderOpenAI
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = "gpt-3.5-turbo"
	}
	if cfg.Oracle.Timeout == 0 {
		cfg.Oracle.Timeout = 30 * time.Second
	}

	if cfg.Scan.ContractsDir == "" {
		cfg.Scan.ContractsDir = "./contracts"
	}
	if cfg.Scan.DocumentDelay == 0 {
		cfg.Scan.DocumentDelay = time.Second
	}
	if cfg.Scan.KeywordConcurrency == 0 {
		cfg.Scan.KeywordConcurrency = 4
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "nominations.db"
	}
	if cfg.Store.BackupDir == "" {
		cfg.Store.BackupDir = "backups"
	}
}
