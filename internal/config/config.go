package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Coverage CoverageConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Env             string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// CoverageConfig bounds the work of a single coverage calculation
type CoverageConfig struct {
	MaxGridPoints  int
	MaxEvaluations int64
	Workers        int
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	SampleRatio float64
	ServiceName string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Read from .env files based on environment
	v.AutomaticEnv()
	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// Read .env file (ignore error if file doesn't exist)
	_ = v.ReadInConfig()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("COVERAGE_MAX_GRID_POINTS", 250000)
	v.SetDefault("COVERAGE_MAX_EVALUATIONS", 50000000)
	v.SetDefault("COVERAGE_WORKERS", 0)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("TRACING_ENDPOINT", "")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	v.SetDefault("TRACING_SERVICE_NAME", "coverage-api")
}

func fromViper(v *viper.Viper) *Config {
	var config Config
	config.Server.Port = v.GetString("PORT")
	config.Server.Env = v.GetString("ENVIRONMENT")
	config.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	config.Server.RequestTimeout = v.GetDuration("REQUEST_TIMEOUT")
	config.Server.ShutdownTimeout = v.GetDuration("SHUTDOWN_TIMEOUT")
	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Coverage.MaxGridPoints = v.GetInt("COVERAGE_MAX_GRID_POINTS")
	config.Coverage.MaxEvaluations = v.GetInt64("COVERAGE_MAX_EVALUATIONS")
	config.Coverage.Workers = v.GetInt("COVERAGE_WORKERS")
	config.Metrics.Enabled = v.GetBool("METRICS_ENABLED")
	config.Tracing.Enabled = v.GetBool("TRACING_ENABLED")
	config.Tracing.Exporter = v.GetString("TRACING_EXPORTER")
	config.Tracing.Endpoint = v.GetString("TRACING_ENDPOINT")
	config.Tracing.SampleRatio = v.GetFloat64("TRACING_SAMPLE_RATIO")
	config.Tracing.ServiceName = v.GetString("TRACING_SERVICE_NAME")

	if config.Server.RequestTimeout <= 0 {
		log.Warn().Str("value", v.GetString("REQUEST_TIMEOUT")).Msg("Invalid REQUEST_TIMEOUT, using 30s")
		config.Server.RequestTimeout = 30 * time.Second
	}
	if config.Server.ShutdownTimeout <= 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}

	log.Debug().
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Int("max_grid_points", config.Coverage.MaxGridPoints).
		Int64("max_evaluations", config.Coverage.MaxEvaluations).
		Msg("Configuration loaded")

	return &config
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
