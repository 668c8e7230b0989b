package telemetry

import (
	"os"
	"strings"
)

// DefaultServiceName is reported when OTEL_SERVICE_NAME is unset.
const DefaultServiceName = "soyc-report"

// Config holds OpenTelemetry configuration loaded from environment variables.
type Config struct {
	// Enabled is read from OTEL_ENABLED.
	Enabled bool

	// ServiceName is read from OTEL_SERVICE_NAME.
	ServiceName string

	// ServiceVersion is read from OTEL_SERVICE_VERSION, falling back to the
	// build version.
	ServiceVersion string

	// Endpoint is the OTLP collector endpoint (OTEL_EXPORTER_OTLP_ENDPOINT).
	Endpoint string

	// Protocol is grpc or http/protobuf (OTEL_EXPORTER_OTLP_PROTOCOL).
	Protocol string

	// Headers are sent with every export, "k1=v1,k2=v2".
	Headers map[string]string

	// Insecure disables TLS (OTEL_EXPORTER_OTLP_INSECURE).
	Insecure bool

	// Sampler and SamplerArg follow OTEL_TRACES_SAMPLER(_ARG).
	Sampler    string
	SamplerArg string

	// ResourceAttrs is read from OTEL_RESOURCE_ATTRIBUTES.
	ResourceAttrs map[string]string
}

// LoadFromEnv loads configuration from environment variables. version is
// used when OTEL_SERVICE_VERSION is unset.
func LoadFromEnv(version string) *Config {
	if version == "" {
		version = "unknown"
	}
	return &Config{
		Enabled:        strings.EqualFold(os.Getenv("OTEL_ENABLED"), "true"),
		ServiceName:    getEnvOrDefault("OTEL_SERVICE_NAME", DefaultServiceName),
		ServiceVersion: getEnvOrDefault("OTEL_SERVICE_VERSION", version),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       getEnvOrDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
		Headers:        parseKeyValuePairs(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:       strings.EqualFold(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"), "true"),
		Sampler:        os.Getenv("OTEL_TRACES_SAMPLER"),
		SamplerArg:     os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
		ResourceAttrs:  parseKeyValuePairs(os.Getenv("OTEL_RESOURCE_ATTRIBUTES")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseKeyValuePairs parses "k1=v1,k2=v2". Values may contain '='.
func parseKeyValuePairs(s string) map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		result[key] = strings.TrimSpace(value)
	}
	return result
}
