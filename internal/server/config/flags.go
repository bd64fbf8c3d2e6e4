package config

import (
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a, --addr string            HTTP bind address (e.g., ":8080")
//	    --api-prefix string      route prefix (e.g., "/api")
//	-d, --dsn string             PostgreSQL DSN
//	-s, --secret string          JWT HMAC secret key
//	-t, --token-ttl int          access token validity, minutes
//	    --bcrypt-cost int        bcrypt work factor
//	-l, --log-level string       debug|info|warn|error
//	    --cors-origins string    comma-separated allowed origins
//	-m, --max-upload-mb int      request body limit, MiB
//	    --engine-url string      reasoning engine base URL
//	    --engine-model string    reasoning engine model name
//	-k, --engine-key string      reasoning engine API key
//	    --engine-timeout dur     reasoning engine HTTP timeout
//	    --stage string           stage backend: local|s3
//	    --stage-dir string       root directory for the local stage backend
//	-u, --s3-user string         S3 root user
//	-p, --s3-password string     S3 root password
//	-b, --s3-bucket string       S3 bucket name
//	-g, --s3-region string       S3 region
//	-e, --s3-endpoint string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	    --s3-prefix string       key prefix for staged objects
//
// Flags defined by other parsers (such as -c/--config) are skipped.
func parseFlags(config *Config, args []string) error {
	fs := flagx.NewFlagSet("claimcheck")

	fs.StringVarP(&config.EndpointAddrHTTP, "addr", "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.APIPrefix, "api-prefix", config.APIPrefix, "route prefix")
	fs.StringVarP(&config.DatabaseDSN, "dsn", "d", config.DatabaseDSN, "database DSN")
	fs.StringVarP(&config.SecretKey, "secret", "s", config.SecretKey, "secret key")
	tokenTTL := fs.IntP("token-ttl", "t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt cost")
	fs.StringVarP(&config.LogLevel, "log-level", "l", config.LogLevel, "log level")
	fs.StringVar(&config.CORSOrigins, "cors-origins", config.CORSOrigins, "allowed CORS origins")
	maxUploadMB := fs.Int64P("max-upload-mb", "m", config.MaxUploadBytes>>20, "max request body size (in MiB)")

	fs.StringVar(&config.EngineBaseURL, "engine-url", config.EngineBaseURL, "reasoning engine base URL")
	fs.StringVar(&config.EngineModel, "engine-model", config.EngineModel, "reasoning engine model")
	fs.StringVarP(&config.EngineAPIKey, "engine-key", "k", config.EngineAPIKey, "reasoning engine API key")
	fs.DurationVar(&config.EngineTimeout, "engine-timeout", config.EngineTimeout, "reasoning engine HTTP timeout")

	fs.StringVar(&config.StageBackend, "stage", config.StageBackend, "stage backend (local|s3)")
	fs.StringVar(&config.StageDir, "stage-dir", config.StageDir, "stage root directory")

	fs.StringVarP(&config.S3RootUser, "s3-user", "u", config.S3RootUser, "S3 root user")
	fs.StringVarP(&config.S3RootPassword, "s3-password", "p", config.S3RootPassword, "S3 root password")
	fs.StringVarP(&config.S3Bucket, "s3-bucket", "b", config.S3Bucket, "S3 bucket")
	fs.StringVarP(&config.S3Region, "s3-region", "g", config.S3Region, "S3 region")
	fs.StringVarP(&config.S3BaseEndpoint, "s3-endpoint", "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "s3-prefix", config.S3Prefix, "S3 key prefix for staged objects")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.Changed("token-ttl") {
		config.AccessTokenValidityDuration = time.Duration(*tokenTTL) * time.Minute
	}
	if fs.Changed("max-upload-mb") {
		config.MaxUploadBytes = *maxUploadMB << 20
	}
	return nil
}
