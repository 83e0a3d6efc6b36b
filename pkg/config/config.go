// Package config provides unified configuration for the pforte server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (PFORTE_ prefix)
//  4. Validation
package config

import "time"

// Config holds all configuration for the pforte server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Response      ResponseConfig      `yaml:"response"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 60s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
	MaxBodySize     int64         `yaml:"max_body_size"`    // bytes, default: 10 MB
	MaxMemory       int64         `yaml:"max_memory"`       // multipart bytes in memory, default: 32 MB
	MaxFileSize     int64         `yaml:"max_file_size"`    // per upload, 0 = unlimited
}

// ResponseConfig holds defaults applied to every outgoing response.
type ResponseConfig struct {
	ProtocolVersion string            `yaml:"protocol_version"` // "1.0" or "1.1", default: "1.1"
	DefaultHeaders  map[string]string `yaml:"default_headers"`
}

// LoggingConfig holds log level, debug categories and file output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`        // TRACE, DEBUG, INFO, WARN, ERROR; default: INFO
	Debug      string `yaml:"debug"`        // comma-separated categories
	File       string `yaml:"file"`         // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`  // default: 100
	MaxBackups int    `yaml:"max_backups"`  // default: 3
	MaxAgeDays int    `yaml:"max_age_days"` // default: 28
	Compress   bool   `yaml:"compress"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodySize:     10 << 20,
			MaxMemory:       32 << 20,
		},
		Response: ResponseConfig{
			ProtocolVersion: "1.1",
		},
		Logging: LoggingConfig{
			Level:      "INFO",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
