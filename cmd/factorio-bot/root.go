package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ancillary-agi/factorio-headless-client/internal/config"
	"github.com/ancillary-agi/factorio-headless-client/internal/telemetry"
)

// rootFlags holds the persistent flags every subcommand reads to build
// its config/logger/metrics trio.
type rootFlags struct {
	configPath  string
	serverAddr  string
	username    string
	logLevel    string
	debug       bool
	metricsAddr string
}

func rootCmd() *cobra.Command {
	var rf rootFlags

	cmd := &cobra.Command{
		Use:          "factorio-bot",
		Short:        "Headless Factorio 2.0 multiplayer client",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&rf.configPath, "config", "", "path to bot config YAML")
	cmd.PersistentFlags().StringVar(&rf.serverAddr, "server", "", "server address (host:port), overrides config")
	cmd.PersistentFlags().StringVar(&rf.username, "username", "", "player username, overrides config")
	cmd.PersistentFlags().StringVar(&rf.logLevel, "log-level", "", "log level (trace/debug/info/warn/error), overrides config")
	cmd.PersistentFlags().BoolVar(&rf.debug, "debug", false, "force debug logging (FACTORIO_DEBUG)")
	cmd.PersistentFlags().StringVar(&rf.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, empty disables")

	cmd.AddCommand(runCmd(&rf), gotoCmd(&rf))
	return cmd
}

// session resolves flags over config.Load and wires up the logger and
// metrics registry, starting the metrics HTTP endpoint if requested.
func (rf *rootFlags) session() (config.Config, zerolog.Logger, *telemetry.Metrics, error) {
	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return config.Config{}, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}
	if rf.serverAddr != "" {
		cfg.ServerAddress = rf.serverAddr
	}
	if rf.username != "" {
		cfg.Username = rf.username
	}
	if rf.logLevel != "" {
		cfg.LogLevel = rf.logLevel
	}
	if rf.debug {
		cfg.Debug = true
	}

	log := telemetry.NewLogger(cfg.LogLevel, cfg.Debug)
	m := telemetry.NewMetrics()

	if rf.metricsAddr != "" {
		serveMetrics(log, m, rf.metricsAddr)
	}

	return cfg, log, m, nil
}

// serveMetrics exposes m on a background HTTP listener. Listen errors
// are logged, not fatal — metrics are an observability aid, not a
// requirement to play.
func serveMetrics(log zerolog.Logger, m *telemetry.Metrics, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		m.WritePrometheus(w)
	})
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
}
