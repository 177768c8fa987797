package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("provider.base_url", "https://www.pealim.com")
	v.SetDefault("provider.timeout_seconds", 10)
	v.SetDefault("redis.ttl_minutes", 60)
	v.SetDefault("srs.policy", "exponential")

	// Optional config file next to the binary or under /etc/milon.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/milon")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// MILON_DATABASE_URL overrides database.url, and so on.
	v.SetEnvPrefix("MILON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// bindEnvs registers every key explicitly so AutomaticEnv sees variables
// for keys that have no default and appear in no config file.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"server.metrics_port",
		"server.log_level",
		"database.url",
		"provider.base_url",
		"provider.timeout_seconds",
		"redis.url",
		"redis.ttl_minutes",
		"srs.policy",
		"srs.base_interval_minutes",
		"srs.first_interval_hours",
		"srs.growth_factor",
		"srs.level_ceiling",
		"srs.hard_multiplier",
		"srs.easy_multiplier",
	} {
		_ = v.BindEnv(key)
	}
}
