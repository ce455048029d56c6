// Package config provides configuration loading for nominationd.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables. A single Config value is threaded from the CLI entry point into
// every component; nothing reads ambient process state deeper in the tree.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/nominationd/internal/logging"
)

// Config holds the complete nominationd configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Logging logging.Config `koanf:"logging"`
	Oracle  OracleConfig   `koanf:"oracle"`
	Scan    ScanConfig     `koanf:"scan"`
	Store   StoreConfig    `koanf:"store"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// APIToken, when set, requires a matching bearer token on /api/v1 routes.
	APIToken string `koanf:"api_token"`
}

// OracleConfig holds language-model oracle configuration.
type OracleConfig struct {
	// Provider selects the oracle implementation: "openai" or "fixed".
	// "fixed" short-circuits date resolution to a constant and keyword
	// extraction to a placeholder, for offline development and tests.
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
}

// ScanConfig holds folder scan configuration.
type ScanConfig struct {
	// ContractsDir is the folder enumerated for .docx contract documents.
	ContractsDir string `koanf:"contracts_dir"`
	// DocumentDelay is the pause between documents to stay under oracle
	// provider rate limits.
	DocumentDelay time.Duration `koanf:"document_delay"`
	// KeywordConcurrency bounds concurrent keyword-extraction calls per document.
	KeywordConcurrency int `koanf:"keyword_concurrency"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path      string `koanf:"path"`
	BackupDir string `koanf:"backup_dir"`
}

const (
	ProviderOpenAI = "openai"
	ProviderFixed  = "fixed"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	switch c.Oracle.Provider {
	case ProviderOpenAI:
		if c.Oracle.APIKey == "" {
			return errors.New("oracle api_key is required for the openai provider (or set oracle.provider to \"fixed\")")
		}
	case ProviderFixed:
	default:
		return fmt.Errorf("unknown oracle provider %q", c.Oracle.Provider)
	}
	if c.Scan.ContractsDir == "" {
		return errors.New("scan contracts_dir is required")
	}
	if c.Scan.KeywordConcurrency < 1 {
		return fmt.Errorf("scan keyword_concurrency must be >= 1, got %d", c.Scan.KeywordConcurrency)
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	return nil
}
