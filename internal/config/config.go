package config

// Environments recognized by server.environment.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Mirror   MirrorConfig   `mapstructure:"mirror"   validate:"required"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"        validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level"   validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=production development test"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of the HTTP server and
	// the mirror queue.
	ShutdownTimeoutSeconds int   `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
	MaxBodyBytes           int64 `mapstructure:"max_body_bytes"           validate:"gte=1"`
}

// IsProduction reports whether the server runs with production semantics:
// no error details in responses and no key listing aid.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == EnvProduction
}

// AuthConfig contains the API key settings.
type AuthConfig struct {
	APIKeyHeader string `mapstructure:"api_key_header" validate:"required"`
}

// DatabaseConfig contains the optional durable mirror settings.
// An empty URL keeps the catalog in memory only, unless Required is set.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required_if=Required true,omitempty,url"`
	// Required makes startup fail when no database is configured or it cannot
	// be reached, instead of falling back to memory-only operation.
	Required bool `mapstructure:"required"`
}

// MirrorConfig sizes the background queue that writes mutations to the mirror.
type MirrorConfig struct {
	QueueSize   int `mapstructure:"queue_size"   validate:"gte=1"`
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
}

// CatalogConfig controls the initial catalog.
type CatalogConfig struct {
	SeedSamples bool `mapstructure:"seed_samples"`
}
