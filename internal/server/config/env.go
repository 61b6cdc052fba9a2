package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/scmexpert/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables.
//
// A dotenv file given with -env-file overrides variables already set in the
// process; otherwise ./.env is loaded when present and never overrides.
// Malformed numeric or boolean values panic, like the other loaders.
//
// Variables:
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_DSN, JWT_SECRET_KEY, JWT_ALGORITHM,
//	ACCESS_TOKEN_EXPIRE_MINUTES, BCRYPT_COST, PUBLIC_BASE_URL, COOKIE_SECURE,
//	LOG_LEVEL, S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION,
//	S3_BASE_ENDPOINT, SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM
func parseEnv(config *Config) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET_KEY")
	setString(&config.SigningAlgorithm, "JWT_ALGORITHM")

	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok && v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err))
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}

	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("BCRYPT_COST: %w", err))
		}
		config.BcryptCost = cost
	}

	setString(&config.PublicBaseURL, "PUBLIC_BASE_URL")

	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok && v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("COOKIE_SECURE: %w", err))
		}
		config.CookieSecure = secure
	}

	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.SMTPHost, "SMTP_HOST")
	setString(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUser, "SMTP_USER")
	setString(&config.SMTPPassword, "SMTP_PASS")
	setString(&config.SMTPFrom, "SMTP_FROM")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
