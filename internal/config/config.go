package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Sync          SyncConfig
	Groups        GroupsConfig
	Logging       LoggingConfig
	ErrorSink     ErrorSinkConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path      string
	LogTiming bool
}

type SyncConfig struct {
	IntervalSeconds    int
	FetchConcurrency   int
	RateLimit          int
	HTTPTimeoutSeconds int
}

type GroupsConfig struct {
	Depth int
}

type LoggingConfig struct {
	Format string
}

type ErrorSinkConfig struct {
	URL    string
	Source string
}

type ObservabilityConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	OTLPTraceHeaders  map[string]string
	OTLPMetricHeaders map[string]string
	ServiceName       string
	ServiceVer        string
	SamplingRatio     float64
	MetricsConsole    bool
}

func Load() (Config, error) {
	return load(true)
}

// LoadForTool loads config for CLI tools that do not serve HTTP.
func LoadForTool() (Config, error) {
	return load(false)
}

func load(requireServer bool) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ticketsync_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("ticketsync_port", 8080)
	v.SetDefault("ticketsync_db_path", "data/ticketsync")
	v.SetDefault("ticketsync_db_timing", false)
	v.SetDefault("ticketsync_sync_interval_seconds", 60)
	v.SetDefault("ticketsync_fetch_concurrency", 8)
	v.SetDefault("ticketsync_rate_limit", 100)
	v.SetDefault("ticketsync_http_timeout_seconds", 30)
	v.SetDefault("ticketsync_group_depth", 16)
	v.SetDefault("ticketsync_log_format", "text")
	v.SetDefault("ticketsync_error_sink_url", "")
	v.SetDefault("ticketsync_error_sink_source", "ticketsync")
	v.SetDefault("ticketsync_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_exporter_otlp_metrics_headers", "")
	v.SetDefault("otel_service_name", "ticketsync")
	v.SetDefault("ticketsync_service_name", "ticketsync")
	v.SetDefault("ticketsync_version", "dev")
	v.SetDefault("otel_service_version", "")
	v.SetDefault("ticketsync_otel_sampling_ratio", 1.0)
	v.SetDefault("ticketsync_otel_metrics_console", false)

	env := resolveEnvironment(v)
	port := v.GetInt("ticketsync_port")
	if requireServer && (port <= 0 || port > 65535) {
		return Config{}, fmt.Errorf("invalid TICKETSYNC_PORT: %d", port)
	}

	samplingRatio := v.GetFloat64("ticketsync_otel_sampling_ratio")
	if samplingRatio < 0 {
		samplingRatio = 0
	}
	if samplingRatio > 1 {
		samplingRatio = 1
	}

	timeout := v.GetInt("ticketsync_http_timeout_seconds")
	if timeout <= 0 {
		timeout = 30
	}

	logFormat := strings.ToLower(strings.TrimSpace(v.GetString("ticketsync_log_format")))
	if logFormat != "json" {
		logFormat = "text"
	}

	serviceName := strings.TrimSpace(v.GetString("otel_service_name"))
	if serviceName == "" {
		serviceName = strings.TrimSpace(v.GetString("ticketsync_service_name"))
	}
	if serviceName == "" {
		serviceName = "ticketsync"
	}

	serviceVersion := strings.TrimSpace(v.GetString("ticketsync_version"))
	if serviceVersion == "" {
		serviceVersion = strings.TrimSpace(v.GetString("otel_service_version"))
	}
	if serviceVersion == "" {
		serviceVersion = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	otlpCommonHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers"))
	otlpTraceHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers"))
	otlpMetricHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_metrics_headers"))
	metricsConsole := v.GetBool("ticketsync_otel_metrics_console")
	otelEnabled := v.GetBool("ticketsync_otel_enabled") || otlpEndpoint != "" || metricsConsole

	sinkSource := strings.TrimSpace(v.GetString("ticketsync_error_sink_source"))
	if sinkSource == "" {
		sinkSource = "ticketsync"
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Path:      strings.TrimSpace(v.GetString("ticketsync_db_path")),
			LogTiming: v.GetBool("ticketsync_db_timing"),
		},
		Sync: SyncConfig{
			IntervalSeconds:    clamp(v.GetInt("ticketsync_sync_interval_seconds"), 5, 3600),
			FetchConcurrency:   clamp(v.GetInt("ticketsync_fetch_concurrency"), 1, 64),
			RateLimit:          clamp(v.GetInt("ticketsync_rate_limit"), 1, 10000),
			HTTPTimeoutSeconds: timeout,
		},
		Groups:  GroupsConfig{Depth: clamp(v.GetInt("ticketsync_group_depth"), 1, 32)},
		Logging: LoggingConfig{Format: logFormat},
		ErrorSink: ErrorSinkConfig{
			URL:    strings.TrimSpace(v.GetString("ticketsync_error_sink_url")),
			Source: sinkSource,
		},
		Observability: ObservabilityConfig{
			Enabled:           otelEnabled,
			OTLPEndpoint:      otlpEndpoint,
			OTLPTraceHeaders:  mergeHeaderMaps(otlpCommonHeaders, otlpTraceHeaders),
			OTLPMetricHeaders: mergeHeaderMaps(otlpCommonHeaders, otlpMetricHeaders),
			ServiceName:       serviceName,
			ServiceVer:        serviceVersion,
			SamplingRatio:     samplingRatio,
			MetricsConsole:    metricsConsole,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/ticketsync"
	}

	return cfg, nil
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pair := strings.SplitN(part, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key := strings.TrimSpace(pair[0])
		value := strings.TrimSpace(pair[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

// SyncInterval is the delay between orchestrator ticks.
func (c Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.IntervalSeconds) * time.Second
}

// HTTPTimeout bounds a single provider request.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Sync.HTTPTimeoutSeconds) * time.Second
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"ticketsync_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
