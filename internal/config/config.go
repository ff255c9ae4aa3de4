// Package config assembles application configuration by layering:
// defaults < config file < .env file < environment. The analysis
// core never reads any of this; it receives its window and options
// as explicit parameters.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consumed by Load.
const (
	EnvAPIKey  = "PORTIA_API_KEY"
	EnvOrgID   = "PORTIA_ORG_ID"
	EnvBaseURL = "PORTIA_BASE_URL"
	EnvDataDir = "PORTIA_DIGEST_DATA_DIR"
	EnvTopN    = "PORTIA_DIGEST_TOP_N"
)

// Config holds all application configuration.
type Config struct {
	APIKey  string `yaml:"-"`
	OrgID   string `yaml:"-"`
	BaseURL string `yaml:"base_url"`

	// DataDir holds the digest history database.
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"-"`

	// Digest delivery settings.
	Recipient string `yaml:"recipient"`
	Schedule  string `yaml:"schedule"` // 5-field cron expression

	// Analysis defaults, overridable per invocation by flags.
	TopN      int  `yaml:"top_n"`
	WithTools bool `yaml:"with_tools"`

	// FetchLimit caps how many records one analysis pulls from
	// the platform.
	FetchLimit int `yaml:"fetch_limit"`
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determining home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".portia-digest")
	return Config{
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, "digests.db"),
		Schedule:   "0 7 * * *", // daily at 07:00 UTC
		TopN:       5,
		FetchLimit: 1000,
	}, nil
}

// Load builds a Config: defaults, then the YAML config file in the
// data dir, then a .env file in the working directory, then real
// environment variables. Credentials come only from the
// environment, never from the config file.
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	// A missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	// The data-dir override lands before the file layer so it
	// relocates the config file along with the database.
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if err := ApplyFile(&cfg, filepath.Join(cfg.DataDir, "config.yaml")); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	cfg.DBPath = filepath.Join(cfg.DataDir, "digests.db")
	return cfg, nil
}

// ApplyFile overlays values from a YAML config file. A missing file
// is not an error.
func ApplyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvOrgID); v != "" {
		cfg.OrgID = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvTopN); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopN = n
		}
	}
}

// RequireCredentials validates that the API credentials are set.
func (c Config) RequireCredentials() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s is required", EnvAPIKey)
	}
	if c.OrgID == "" {
		return fmt.Errorf("%s is required", EnvOrgID)
	}
	return nil
}
