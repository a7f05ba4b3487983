package collector

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

// Collector implements the prometheus Collector interface, providing knot
// server metrics whenever a prometheus scrape is received.
//
// Each scrape dials a fresh control session and runs the enabled categories
// strictly one after another over it; nothing is cached across scrapes, so
// every value served is a fresh read from the server. Concurrent scrapes are
// safe: they share nothing but the immutable configuration, each holding its
// own session.
//
type Collector struct {
	// dialer opens control-channel sessions against the knot server.
	//
	dialer knotctl.Dialer

	// cfg selects which categories each scrape collects.
	//
	cfg Config

	log logr.Logger
}

// ensure that we implement prometheus' collector interface.
//
var _ prometheus.Collector = &Collector{}

// Option is a type used by functional arguments to mutate the collector to
// override default behavior.
//
type Option func(c *Collector)

// WithLogger is a functional argument that overrides the default logger.
//
func WithLogger(log logr.Logger) func(c *Collector) {
	return func(c *Collector) {
		c.log = log
	}
}

// New instantiates a collector that reaches the knot server through the
// given dialer.
//
func New(dialer knotctl.Dialer, cfg Config, opts ...Option) (*Collector, error) {
	defaultLogger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("zap new development: %w", err)
	}

	c := &Collector{
		dialer: dialer,
		cfg:    cfg,
		log:    zapr.NewLogger(defaultLogger),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Register instantiates a collector and registers it with the given
// registry, making it available for an exporter to collect our metrics.
//
func Register(reg prometheus.Registerer, dialer knotctl.Dialer, cfg Config, opts ...Option) error {
	c, err := New(dialer, cfg, opts...)
	if err != nil {
		return fmt.Errorf("new: %w", err)
	}

	if err := reg.Register(c); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return nil
}

// categoryCollector is one independent collection category within a scrape.
//
type categoryCollector interface {
	Name() string
	Enabled(cfg Config) bool
	Collect(session knotctl.Session) error
}

// scrapeDesc carries scrape-level failures into the registry so that the
// exposition layer can answer with an error instead of a partial page.
//
var scrapeDesc = prometheus.NewDesc(
	"knot_scrape_error",
	"scrape-level failure talking to the knot control socket",
	nil, nil,
)

// Describe implements the Describe function of the Collector interface.
//
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Because we can present the description of the metrics at collection
	// time, we don't need to write anything to the channel.
}

// Collect implements the Collect function of the Collector interface.
//
// Here is where the calls to the knot control socket are made, one category
// at a time, in a fixed order. A failure inside one category is logged and
// the remaining categories still run; a session-level failure (dial,
// timeout, torn connection) invalidates the whole scrape.
//
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	session, err := c.dialer.Dial()
	if err != nil {
		c.log.Error(err, "dial control socket")
		ch <- prometheus.NewInvalidMetric(
			scrapeDesc, fmt.Errorf("dial control socket: %w", err),
		)

		return
	}
	defer session.Close()

	for _, collector := range []categoryCollector{
		newMemoryCollector(ch, c.cfg.ProcessName, c.log),
		newGlobalStatsCollector(ch),
		newZoneStatsCollector(ch),
		newZoneStatusCollector(ch, c.log),
		newZoneConfigCollector(ch, c.log),
	} {
		if !collector.Enabled(c.cfg) {
			continue
		}

		err := collector.Collect(session)
		if err == nil {
			continue
		}

		if isSessionError(err) {
			c.log.Error(err, "session failure",
				"category", collector.Name())
			ch <- prometheus.NewInvalidMetric(
				scrapeDesc, fmt.Errorf("%s collect: %w",
					collector.Name(), err),
			)

			return
		}

		c.log.Error(err, "collect", "category", collector.Name())
	}
}

// isSessionError reports whether an error left the control session unusable
// for the categories that follow (as opposed to a bad reply payload, which
// only affects its own category).
//
func isSessionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
