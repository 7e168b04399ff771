package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// LLMConfig contains the settings for the hosted model service.
type LLMConfig struct {
	GeminiAPIKey string  `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string  `mapstructure:"model_name"     validate:"required"`
	Temperature  float64 `mapstructure:"temperature"    validate:"gte=0,lte=2"`
}

// DatabaseConfig contains the run journal database settings.
// An empty URL disables the journal.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// TracingConfig controls OpenTelemetry export. An empty endpoint keeps
// the global no-op tracer provider.
type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"  validate:"required"`
}

// JournalEnabled reports whether a database URL was configured.
func (c *Config) JournalEnabled() bool {
	return c.Database.URL != ""
}
