package observability

import (
	"os"
	"strconv"
)

// Config holds observability settings, read from the environment so the
// telemetry stack can start before the main configuration is parsed.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string

	TraceExporter  string // stdout, otlp, none
	MetricExporter string // stdout, otlp, none
	OTLPEndpoint   string

	PrometheusEnabled bool
	PrometheusPort    int
}

// GetConfig reads observability settings from FITCHECK_OBS_* variables.
func GetConfig(serviceVersion string) *Config {
	cfg := &Config{
		Enabled:           envBool("FITCHECK_OBS_ENABLED", false),
		ServiceName:       envString("FITCHECK_OBS_SERVICE_NAME", "fitcheck"),
		ServiceVersion:    serviceVersion,
		Environment:       envString("FITCHECK_OBS_ENVIRONMENT", "development"),
		TraceExporter:     envString("FITCHECK_OBS_TRACE_EXPORTER", "stdout"),
		MetricExporter:    envString("FITCHECK_OBS_METRIC_EXPORTER", "stdout"),
		OTLPEndpoint:      envString("FITCHECK_OBS_OTLP_ENDPOINT", "localhost:4318"),
		PrometheusEnabled: envBool("FITCHECK_OBS_PROMETHEUS_ENABLED", false),
		PrometheusPort:    envInt("FITCHECK_OBS_PROMETHEUS_PORT", 9090),
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.Atoi(v)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
