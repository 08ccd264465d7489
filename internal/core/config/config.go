// Package config provides configuration management for regosift services.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

// FilterAPIConfig holds configuration for the HTTP filter API service.
type FilterAPIConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	MaxPolicySize  int
	MaxBindings    int
	HistoryLimit   int
}

// DefaultFilterAPIConfig returns configuration with default values.
func DefaultFilterAPIConfig() *FilterAPIConfig {
	return &FilterAPIConfig{
		Host:           "0.0.0.0",
		Port:           8072,
		RequestTimeout: 10 * time.Second,
		MaxPolicySize:  256 * 1024,
		MaxBindings:    128,
		HistoryLimit:   100,
	}
}

// HMACSecrets extracts HMAC secrets from environment variables.
// Supports RS_HMAC_SECRET (single) and RS_HMAC_SECRET_N (rotation).
// Returns map of secret_id -> decoded secret bytes.
// Secret IDs are UUIDv7 (32 hex chars without hyphens) matching API key format.
func HMACSecrets() (map[string][]byte, error) {
	secrets := make(map[string][]byte)

	// Check single secret RS_HMAC_SECRET
	// Format: <secret_id>:<base64_secret>
	if val := os.Getenv("RS_HMAC_SECRET"); val != "" {
		secretID, decoded, err := ParseHMACSecretWithID(val)
		if err != nil {
			return nil, fmt.Errorf("RS_HMAC_SECRET: %w", err)
		}
		secrets[secretID] = decoded
	}

	// Check numbered secrets RS_HMAC_SECRET_1, RS_HMAC_SECRET_2, etc.
	// Multiple secrets enable rotation: old and new keys valid during migration
	for i := 1; ; i++ {
		key := fmt.Sprintf("RS_HMAC_SECRET_%d", i)
		val := os.Getenv(key)
		if val == "" {
			break
		}
		secretID, decoded, err := ParseHMACSecretWithID(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := secrets[secretID]; exists {
			return nil, fmt.Errorf("duplicate secret_id '%s' found in environment variables (check RS_HMAC_SECRET and RS_HMAC_SECRET_* for conflicts)", secretID)
		}
		secrets[secretID] = decoded
	}

	return secrets, nil
}

// ParseHMACSecretWithID parses secret_id:base64_secret format.
// Secret ID must be 32 hex chars (UUIDv7 without hyphens).
func ParseHMACSecretWithID(envValue string) (secretID string, secret []byte, err error) {
	parts := strings.SplitN(strings.TrimSpace(envValue), ":", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("format must be <secret_id>:<base64_secret>")
	}

	secretID = parts[0]
	if len(secretID) != 32 {
		return "", nil, fmt.Errorf("secret_id must be 32 hex chars (UUIDv7 without hyphens)")
	}

	for _, c := range secretID {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return "", nil, fmt.Errorf("secret_id must be hex chars only")
		}
	}

	secret, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}

	if len(secret) < 32 {
		return "", nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(secret))
	}

	return secretID, secret, nil
}
