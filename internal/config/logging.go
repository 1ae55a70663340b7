package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`
}

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Listen address of the Prometheus endpoint
	Address string `mapstructure:"address" validate:"required_if=Enabled true"`

	Path string `mapstructure:"path" validate:"required_if=Enabled true"`
}
