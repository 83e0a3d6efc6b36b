package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}
	if c.Server.MaxMemory <= 0 {
		errs = append(errs, fmt.Errorf("server.max_memory must be > 0, got %d", c.Server.MaxMemory))
	}
	if c.Server.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("server.max_file_size must be >= 0, got %d", c.Server.MaxFileSize))
	}

	switch c.Response.ProtocolVersion {
	case "1.0", "1.1":
		// valid
	default:
		errs = append(errs, fmt.Errorf("response.protocol_version must be \"1.0\" or \"1.1\", got %q", c.Response.ProtocolVersion))
	}

	switch strings.ToUpper(c.Logging.Level) {
	case "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of TRACE, DEBUG, INFO, WARN, ERROR, got %q", c.Logging.Level))
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	return errors.Join(errs...)
}
