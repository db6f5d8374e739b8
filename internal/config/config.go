package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the base server configuration.
type Config struct {
	Host                     string
	Port                     string
	SQLiteDBPath             string
	Env                      string
	AllowTestMode            bool
	JWTSecret                string
	JWTAccessTokenExpirySec  int
	JWTRefreshTokenExpirySec int

	// Device status monitoring
	StatusSweepSpec    string // cron spec for the staleness sweep
	StatusStaleAfterSec int   // seconds without a report before a device counts as offline

	// First-run bootstrap credentials; applied only when the users table is empty.
	BootstrapAdminUser     string
	BootstrapAdminPassword string
}

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	cfg := Config{
		Host:                     envString("HOST", "0.0.0.0"),
		Port:                     envString("PORT", "9000"),
		SQLiteDBPath:             envString("SQLITE_DB_PATH", "./data/mediapi-hub.db"),
		Env:                      envString("APP_ENV", "development"),
		AllowTestMode:            envBool("ALLOW_TEST_MODE", false),
		JWTSecret:                envString("JWT_SECRET", ""),
		JWTAccessTokenExpirySec:  envInt("JWT_ACCESS_TOKEN_EXPIRY", 3600),
		JWTRefreshTokenExpirySec: envInt("JWT_REFRESH_TOKEN_EXPIRY", 2592000),
		StatusSweepSpec:          envString("STATUS_SWEEP_CRON", "@every 1m"),
		StatusStaleAfterSec:      envInt("STATUS_STALE_AFTER_SEC", 180),
		BootstrapAdminUser:       envString("BOOTSTRAP_ADMIN_USER", "admin"),
		BootstrapAdminPassword:   envString("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	if len(strings.TrimSpace(cfg.JWTSecret)) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.EqualFold(val, "true")
}
