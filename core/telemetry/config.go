package telemetry

// Config controls tracing.
type Config struct {
	// Enabled installs the SDK tracer provider. When false the global no-op
	// provider stays in place.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Stdout exports spans to stderr in pretty-printed JSON.
	Stdout bool `mapstructure:"stdout" default:"false"`
	// ServiceName is the service.name resource attribute.
	ServiceName string `mapstructure:"service_name" default:"seminar-sync"`
	// ServiceVersion is the service.version resource attribute.
	ServiceVersion string `mapstructure:"service_version" default:""`
}
