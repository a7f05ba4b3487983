package exporter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Exporter is responsible for bringing up a web server that serves the
// metrics gathered from a registry of collectors (e.g., see
// `pkg/collector`).
//
// Gather errors are surfaced to the scraper as an HTTP error rather than a
// partial metrics page, so a failed control-channel session never
// under-reports silently.
//
type Exporter struct {
	// ListenAddress is the full address used by prometheus
	// to listen for scraping requests.
	//
	// Examples:
	// - :9433
	// - 127.0.0.2:1313
	//
	listenAddress string

	// TelemetryPath configures the path under which
	// the prometheus metrics are reported.
	//
	// For instance:
	// - /metrics
	// - /telemetry
	//
	telemetryPath string

	// gatherer is the set of collectors whose metrics this server
	// exposes.
	//
	gatherer prometheus.Gatherer

	// listener is the TCP listener used by the webserver. `nil` if no
	// server is running.
	//
	listener net.Listener

	log logr.Logger
}

// Option.
//
type Option func(e *Exporter)

// WithBindAddress overrides the default address to listen on.
//
func WithBindAddress(v string) Option {
	return func(e *Exporter) {
		e.listenAddress = v
	}
}

// WithTelemetryPath overrides the default path under which metrics are
// served.
//
func WithTelemetryPath(v string) Option {
	return func(e *Exporter) {
		e.telemetryPath = v
	}
}

// New.
//
func New(gatherer prometheus.Gatherer, opts ...Option) (*Exporter, error) {
	defaultLogger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("zap new development: %w", err)
	}

	e := &Exporter{
		listenAddress: ":9433",
		telemetryPath: "/metrics",
		gatherer:      gatherer,
		log:           zapr.NewLogger(defaultLogger.Named("exporter")),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Run initiates the HTTP server to serve the metrics.
//
// ps.: this is a BLOCKING method - make sure you either make use of goroutines
// to not block if needed.
//
func (e *Exporter) Run(ctx context.Context) error {
	var err error

	e.listener, err = net.Listen("tcp", e.listenAddress)
	if err != nil {
		return fmt.Errorf("listen on '%s': %w", e.listenAddress, err)
	}

	mux := http.NewServeMux()
	mux.Handle(e.telemetryPath, promhttp.HandlerFor(
		e.gatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.HTTPErrorOnError,
		},
	))

	server := &http.Server{Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e.log.WithValues(
			"addr", e.listenAddress,
			"path", e.telemetryPath,
		).Info("listening")

		err := server.Serve(e.listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf(
				"failed listening on address %s: %w",
				e.listenAddress, err,
			)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("wait: %w", err)
	}

	return nil
}

// Close gracefully closes the tcp listener associated with it.
//
func (e *Exporter) Close() (err error) {
	if e.listener == nil {
		return nil
	}

	e.log.Info("closing")
	if err := e.listener.Close(); err != nil &&
		!errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}
