package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port"              validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level"         validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"  validate:"gte=0"` // seconds
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains token verification settings. Token issuance and
// credential management live outside this service.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// StudyConfig tunes the scheduling core. Zero values fall back to the
// SM-2 defaults.
type StudyConfig struct {
	XPPerReview     int `mapstructure:"xp_per_review"     validate:"gte=0"`
	FirstInterval   int `mapstructure:"first_interval"    validate:"gte=0"`
	SecondInterval  int `mapstructure:"second_interval"   validate:"gte=0"`
	DueListLimit    int `mapstructure:"due_list_limit"    validate:"gte=0"`
	ActivityListCap int `mapstructure:"activity_list_cap" validate:"gte=0"`
}
