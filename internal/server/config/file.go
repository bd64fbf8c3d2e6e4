package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/claimcheck/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so files may say "168h" or give integer nanoseconds.
// Only fields present (non-zero) in the file override the current values.
type FileConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	APIPrefix                   string         `json:"api_prefix" yaml:"api_prefix"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	LogLevel                    string         `json:"log_level" yaml:"log_level"`
	CORSOrigins                 string         `json:"cors_origins" yaml:"cors_origins"`
	MaxUploadBytes              int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	EngineBaseURL               string         `json:"engine_base_url" yaml:"engine_base_url"`
	EngineModel                 string         `json:"engine_model" yaml:"engine_model"`
	EngineAPIKey                string         `json:"engine_api_key" yaml:"engine_api_key"`
	EngineTimeout               timex.Duration `json:"engine_timeout" yaml:"engine_timeout"`
	StageBackend                string         `json:"stage_backend" yaml:"stage_backend"`
	StageDir                    string         `json:"stage_dir" yaml:"stage_dir"`
	S3RootUser                  string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3Prefix                    string         `json:"s3_prefix" yaml:"s3_prefix"`
}

// parseFile reads path and overlays its values onto config. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return err
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.APIPrefix, c.APIPrefix)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.CORSOrigins, c.CORSOrigins)
	if c.MaxUploadBytes != 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	setString(&config.EngineBaseURL, c.EngineBaseURL)
	setString(&config.EngineModel, c.EngineModel)
	setString(&config.EngineAPIKey, c.EngineAPIKey)
	if c.EngineTimeout.Duration != 0 {
		config.EngineTimeout = c.EngineTimeout.Duration
	}
	setString(&config.StageBackend, c.StageBackend)
	setString(&config.StageDir, c.StageDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
