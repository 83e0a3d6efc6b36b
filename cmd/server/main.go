// Command server runs a demo pforte front controller.
//
// Every request is turned into a message.Request and answered with a JSON
// reflection of it. GET /healthz answers "ok" and, when enabled, Prometheus
// metrics are served on the configured path.
//
// Configuration is read from a YAML file (see -config, PFORTE_CONFIG,
// ./config.yaml, /etc/pforte/config.yaml) and PFORTE_* environment variables:
//
//	PFORTE_PORT       - Listen port (default: 8080)
//	PFORTE_LOG_LEVEL  - TRACE, DEBUG, INFO, WARN, ERROR (default: INFO)
//	PFORTE_DEBUG      - Debug categories: request, response, transport, config, all
//	PFORTE_LOG_FILE   - Rotated log file instead of stderr
//	PFORTE_METRICS    - Enable the metrics endpoint (default: true)
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rhuss/pforte/pkg/config"
	"github.com/rhuss/pforte/pkg/debug"
	transporthttp "github.com/rhuss/pforte/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	var logOut io.Writer
	if cfg.Logging.File != "" {
		w := debug.RotatingFile(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays, cfg.Logging.Compress)
		defer w.Close()
		logOut = w
	}
	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, logOut)

	srv := transporthttp.NewServer(newEchoHandler(), serverOptions(cfg)...)

	slog.Info("pforte configured",
		"port", cfg.Server.Port,
		"protocol_version", cfg.Response.ProtocolVersion,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	return srv.ListenAndServe()
}

// serverOptions maps the loaded configuration onto transport server options.
func serverOptions(cfg *config.Config) []transporthttp.ServerOption {
	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithMaxMemory(cfg.Server.MaxMemory),
		transporthttp.WithMaxFileSize(cfg.Server.MaxFileSize),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithProtocolVersion(cfg.Response.ProtocolVersion),
		transporthttp.WithDefaultHeaders(cfg.Response.DefaultHeaders),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
	}
	return opts
}
