package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// ServerConfig contains process-level settings.
type ServerConfig struct {
	// MetricsPort is where the Prometheus scrape endpoint listens.
	MetricsPort int    `mapstructure:"metrics_port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level"    validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the storage backend settings. URL is either a
// postgres:// connection string or a SQLite file path.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// ProviderConfig contains the external dictionary settings.
type ProviderConfig struct {
	BaseURL        string `mapstructure:"base_url"        validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// RedisConfig contains the advisory cache settings. An empty URL disables
// the cache.
type RedisConfig struct {
	URL        string `mapstructure:"url"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"gte=0"`
}

// SRSConfig contains the review scheduling policy settings. Zero values
// keep the policy defaults.
type SRSConfig struct {
	// Policy selects the scheduler: "exponential" or "ladder".
	Policy              string  `mapstructure:"policy"                validate:"omitempty,oneof=exponential ladder"`
	BaseIntervalMinutes int     `mapstructure:"base_interval_minutes" validate:"gte=0"`
	FirstIntervalHours  int     `mapstructure:"first_interval_hours"  validate:"gte=0"`
	GrowthFactor        float64 `mapstructure:"growth_factor"         validate:"gte=0"`
	LevelCeiling        int     `mapstructure:"level_ceiling"         validate:"gte=0"`
	HardMultiplier      float64 `mapstructure:"hard_multiplier"       validate:"gte=0"`
	EasyMultiplier      float64 `mapstructure:"easy_multiplier"       validate:"gte=0"`
}
