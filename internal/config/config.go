// Package config loads application configuration from environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	Host          string
	ClientID      string
	ClientSecret  string
	DBPath        string
	CredentialKey []byte // 32 bytes when set; nil disables credential persistence
	Timeout       time.Duration
	PageSize      int
}

// Load reads configuration from environment variables and returns a
// validated Config. QLBRIDGE_HOST, QLBRIDGE_CLIENT_ID and
// QLBRIDGE_CLIENT_SECRET are required. Optional variables with defaults:
// QLBRIDGE_DB_PATH (qlbridge.db), QLBRIDGE_TIMEOUT (10s),
// QLBRIDGE_PAGE_SIZE (10). QLBRIDGE_CREDENTIAL_KEY, when set, must be a
// base64-encoded 32-byte key; without it the issued token is held in
// memory only.
func Load() (*Config, error) {
	host := os.Getenv("QLBRIDGE_HOST")
	if host == "" {
		return nil, fmt.Errorf("QLBRIDGE_HOST is required")
	}
	clientID := os.Getenv("QLBRIDGE_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("QLBRIDGE_CLIENT_ID is required")
	}
	clientSecret := os.Getenv("QLBRIDGE_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("QLBRIDGE_CLIENT_SECRET is required")
	}

	dbPath := "qlbridge.db"
	if v, ok := os.LookupEnv("QLBRIDGE_DB_PATH"); ok {
		dbPath = v
	}

	timeout := 10 * time.Second
	if v, ok := os.LookupEnv("QLBRIDGE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("QLBRIDGE_TIMEOUT has invalid duration %q", v)
		}
		timeout = parsed
	}

	pageSize := 10
	if v, ok := os.LookupEnv("QLBRIDGE_PAGE_SIZE"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("QLBRIDGE_PAGE_SIZE has invalid value %q", v)
		}
		pageSize = parsed
	}

	var key []byte
	if v, ok := os.LookupEnv("QLBRIDGE_CREDENTIAL_KEY"); ok && v != "" {
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("QLBRIDGE_CREDENTIAL_KEY is not valid base64: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("QLBRIDGE_CREDENTIAL_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		key = decoded
	}

	return &Config{
		Host:          host,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		DBPath:        dbPath,
		CredentialKey: key,
		Timeout:       timeout,
		PageSize:      pageSize,
	}, nil
}
