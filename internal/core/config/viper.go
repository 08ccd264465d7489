package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*FilterAPIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultFilterAPIConfig
	v.SetDefault("filter_api.host", "0.0.0.0")
	v.SetDefault("filter_api.port", 8072)
	v.SetDefault("filter_api.request_timeout", "10s")
	v.SetDefault("filter_api.max_policy_size", 256*1024)
	v.SetDefault("filter_api.max_bindings", 128)
	v.SetDefault("filter_api.history_limit", 100)

	// Bind environment variables with RS_ prefix
	v.SetEnvPrefix("RS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject secrets in config files
	// Secrets must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &FilterAPIConfig{
		Host:           v.GetString("filter_api.host"),
		Port:           v.GetInt("filter_api.port"),
		RequestTimeout: v.GetDuration("filter_api.request_timeout"),
		MaxPolicySize:  v.GetInt("filter_api.max_policy_size"),
		MaxBindings:    v.GetInt("filter_api.max_bindings"),
		HistoryLimit:   v.GetInt("filter_api.history_limit"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive values for timeout and limits.
func validateConfig(cfg *FilterAPIConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxPolicySize <= 0 {
		return fmt.Errorf("max_policy_size must be positive, got %d", cfg.MaxPolicySize)
	}
	if cfg.MaxBindings <= 0 {
		return fmt.Errorf("max_bindings must be positive, got %d", cfg.MaxBindings)
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", cfg.HistoryLimit)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("hmac_secret") || v.IsSet("filter_api.hmac_secret") {
		return fmt.Errorf("HMAC secrets not allowed in config files (use RS_HMAC_SECRET environment variable)")
	}
	return nil
}
