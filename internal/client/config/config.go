// Package config holds settings for the claimcheck command-line client.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/flagx"
	"github.com/dmitrijs2005/claimcheck/internal/timex"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the API including its prefix.
//   - RequestTimeout: HTTP timeout per call; analysis calls wait for the engine.
//   - StateDir: where the session database lives.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	StateDir       string
}

// userConfigDir is a seam for tests.
var userConfigDir = os.UserConfigDir

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 3 * time.Minute
	if dir, err := userConfigDir(); err == nil {
		c.StateDir = filepath.Join(dir, "claimcheck")
	} else {
		c.StateDir = ".claimcheck"
	}
}

// JsonConfig is the on-disk shape of the client configuration.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StateDir       string         `json:"state_dir"`
}

func parseJson(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StateDir != "" {
		cfg.StateDir = jc.StateDir
	}
	return nil
}

func parseEnv(cfg *Config) {
	if v, ok := lookupEnv("CLAIMCHECK_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := lookupEnv("CLAIMCHECK_STATE_DIR"); ok && v != "" {
		cfg.StateDir = v
	}
}

func parseFlags(cfg *Config, args []string) error {
	fs := flagx.NewFlagSet("claimcheck-cli")
	fs.StringVarP(&cfg.ServerURL, "server", "a", cfg.ServerURL, "base URL of the claimcheck API")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "HTTP request timeout")
	fs.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory holding the session database")
	return fs.Parse(args)
}

// LoadConfig applies defaults, then an optional JSON file (-c/--config), the
// environment and finally global flags. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFile(args); path != "" {
		if err := parseJson(cfg, path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}
	return cfg, nil
}
