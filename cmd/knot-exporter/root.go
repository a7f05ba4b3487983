package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dnslab/knot-exporter/pkg/collector"
	"github.com/dnslab/knot-exporter/pkg/exporter"
	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

type command struct {
	telemetryPath string
	bindAddr      string
	configFile    string

	knotSocket  string
	timeout     time.Duration
	processName string

	collectMemory      bool
	collectGlobalStats bool
	collectZoneStats   bool
	collectZoneStatus  bool
	collectZoneConfig  bool
}

func (c *command) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knot-exporter",
		Short: "Prometheus exporter for knot dns server metrics",
		RunE:  c.RunE,
	}

	defaults := collector.DefaultConfig()

	cmd.Flags().StringVar(&c.bindAddr, "bind-addr",
		":9433", "address to bind the prometheus server to")

	cmd.Flags().StringVar(&c.telemetryPath, "telemetry-path",
		"/metrics", "endpoint at which prometheus metrics are served")

	cmd.Flags().StringVar(&c.configFile, "config",
		"", "optional yaml config file; flags set on the command "+
			"line take precedence over it")
	_ = cmd.MarkFlagFilename("config")

	cmd.Flags().StringVar(&c.knotSocket, "knot-socket",
		defaults.Socket, "path of the knot control socket")

	cmd.Flags().DurationVar(&c.timeout, "timeout",
		defaults.Timeout.Duration, "timeout for each control "+
			"socket operation")

	cmd.Flags().StringVar(&c.processName, "process-name",
		defaults.ProcessName, "name of the knot server process to "+
			"report memory usage for")

	cmd.Flags().BoolVar(&c.collectMemory, "collect-memory",
		defaults.Memory, "collect server memory usage")

	cmd.Flags().BoolVar(&c.collectGlobalStats, "collect-global-stats",
		defaults.GlobalStats, "collect server-wide statistics")

	cmd.Flags().BoolVar(&c.collectZoneStats, "collect-zone-stats",
		defaults.ZoneStats, "collect per-zone statistics")

	cmd.Flags().BoolVar(&c.collectZoneStatus, "collect-zone-status",
		defaults.ZoneStatus, "collect per-zone timer status")

	cmd.Flags().BoolVar(&c.collectZoneConfig, "collect-zone-config",
		defaults.ZoneConfig, "collect per-zone soa timer configuration")

	return cmd
}

// config assembles the collector configuration from the optional config
// file and the flags, with any flag explicitly set on the command line
// overriding the file.
func (c *command) config(flags interface{ Changed(string) bool }) (collector.Config, error) {
	cfg := collector.DefaultConfig()

	if c.configFile != "" {
		loaded, err := collector.LoadConfig(c.configFile)
		if err != nil {
			return collector.Config{}, fmt.Errorf("load config: %w", err)
		}

		cfg = loaded
	}

	for flag, apply := range map[string]func(){
		"knot-socket":          func() { cfg.Socket = c.knotSocket },
		"timeout":              func() { cfg.Timeout = collector.Duration{Duration: c.timeout} },
		"process-name":         func() { cfg.ProcessName = c.processName },
		"collect-memory":       func() { cfg.Memory = c.collectMemory },
		"collect-global-stats": func() { cfg.GlobalStats = c.collectGlobalStats },
		"collect-zone-stats":   func() { cfg.ZoneStats = c.collectZoneStats },
		"collect-zone-status":  func() { cfg.ZoneStatus = c.collectZoneStatus },
		"collect-zone-config":  func() { cfg.ZoneConfig = c.collectZoneConfig },
	} {
		if flags.Changed(flag) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return collector.Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *command) RunE(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := c.config(cmd.Flags())
	if err != nil {
		return err
	}

	dialer := &knotctl.SocketDialer{
		Path:    cfg.Socket,
		Timeout: cfg.Timeout.Duration,
	}

	registry := prometheus.NewRegistry()

	err = collector.Register(registry, dialer, cfg)
	if err != nil {
		return fmt.Errorf("collector register: %w", err)
	}

	prometheusExporter, err := exporter.New(
		registry,
		exporter.WithBindAddress(c.bindAddr),
		exporter.WithTelemetryPath(c.telemetryPath),
	)
	if err != nil {
		return fmt.Errorf("new exporter: %w", err)
	}
	defer prometheusExporter.Close()

	err = prometheusExporter.Run(ctx)
	if err != nil {
		return fmt.Errorf("prometheus exporter run: %w", err)
	}

	return nil
}
