package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// envString lists the string settings readable from the environment. The
// unprefixed names match what deployments of the previous service exported.
func envString(config *Config) map[string]*string {
	return map[string]*string{
		"CLAIMCHECK_ADDR":          &config.EndpointAddrHTTP,
		"CLAIMCHECK_API_PREFIX":    &config.APIPrefix,
		"DATABASE_URL":             &config.DatabaseDSN,
		"CLAIMCHECK_DATABASE_DSN":  &config.DatabaseDSN,
		"JWT_SECRET_KEY":           &config.SecretKey,
		"CLAIMCHECK_SECRET_KEY":    &config.SecretKey,
		"CLAIMCHECK_LOG_LEVEL":     &config.LogLevel,
		"CORS_ORIGINS":             &config.CORSOrigins,
		"CLAIMCHECK_ENGINE_URL":    &config.EngineBaseURL,
		"CLAIMCHECK_ENGINE_MODEL":  &config.EngineModel,
		"GEMINI_API_KEY":           &config.EngineAPIKey,
		"CLAIMCHECK_ENGINE_KEY":    &config.EngineAPIKey,
		"CLAIMCHECK_STAGE_BACKEND": &config.StageBackend,
		"CLAIMCHECK_STAGE_DIR":     &config.StageDir,
		"CLAIMCHECK_S3_USER":       &config.S3RootUser,
		"CLAIMCHECK_S3_PASSWORD":   &config.S3RootPassword,
		"CLAIMCHECK_S3_BUCKET":     &config.S3Bucket,
		"CLAIMCHECK_S3_REGION":     &config.S3Region,
		"CLAIMCHECK_S3_ENDPOINT":   &config.S3BaseEndpoint,
		"CLAIMCHECK_S3_PREFIX":     &config.S3Prefix,
	}
}

// envOrder fixes precedence when two names target the same field: the
// CLAIMCHECK_ name is applied last and wins.
var envOrder = []string{
	"CLAIMCHECK_ADDR", "CLAIMCHECK_API_PREFIX",
	"DATABASE_URL", "CLAIMCHECK_DATABASE_DSN",
	"JWT_SECRET_KEY", "CLAIMCHECK_SECRET_KEY",
	"CLAIMCHECK_LOG_LEVEL", "CORS_ORIGINS",
	"CLAIMCHECK_ENGINE_URL", "CLAIMCHECK_ENGINE_MODEL",
	"GEMINI_API_KEY", "CLAIMCHECK_ENGINE_KEY",
	"CLAIMCHECK_STAGE_BACKEND", "CLAIMCHECK_STAGE_DIR",
	"CLAIMCHECK_S3_USER", "CLAIMCHECK_S3_PASSWORD", "CLAIMCHECK_S3_BUCKET",
	"CLAIMCHECK_S3_REGION", "CLAIMCHECK_S3_ENDPOINT", "CLAIMCHECK_S3_PREFIX",
}

// parseEnv overlays environment variables onto config.
func parseEnv(config *Config) error {
	fields := envString(config)
	for _, name := range envOrder {
		if v, ok := lookupEnv(name); ok && v != "" {
			*fields[name] = v
		}
	}

	if v, ok := lookupEnv("CLAIMCHECK_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLAIMCHECK_TOKEN_TTL: %w", err)
		}
		config.AccessTokenValidityDuration = d
	}
	if v, ok := lookupEnv("CLAIMCHECK_ENGINE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLAIMCHECK_ENGINE_TIMEOUT: %w", err)
		}
		config.EngineTimeout = d
	}
	if v, ok := lookupEnv("CLAIMCHECK_MAX_UPLOAD_MB"); ok && v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CLAIMCHECK_MAX_UPLOAD_MB: %w", err)
		}
		config.MaxUploadBytes = mb << 20
	}
	return nil
}
