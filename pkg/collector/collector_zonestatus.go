package collector

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

type zoneStatusCollector struct {
	metricsC chan<- prometheus.Metric
	log      logr.Logger
}

var _ categoryCollector = (*zoneStatusCollector)(nil)

func newZoneStatusCollector(
	metricsC chan<- prometheus.Metric, log logr.Logger,
) *zoneStatusCollector {
	return &zoneStatusCollector{
		metricsC: metricsC,
		log:      log,
	}
}

func (c *zoneStatusCollector) Name() string {
	return "zone-status"
}

func (c *zoneStatusCollector) Enabled(cfg Config) bool {
	return cfg.ZoneStatus
}

var (
	zoneExpirationDesc = prometheus.NewDesc(
		"zone_stats_expiration",
		"seconds until the zone expires, negative if already expired",
		[]string{"zone"}, nil,
	)

	zoneRefreshDesc = prometheus.NewDesc(
		"zone_stats_refresh",
		"seconds until the next zone refresh",
		[]string{"zone"}, nil,
	)

	zoneTimerDesc = prometheus.NewDesc(
		"knot_zone_timer_seconds",
		"distribution of a zone timer's value across all zones",
		[]string{"timer"}, nil,
	)
)

// Collect fetches the status of every zone and republishes the expiration
// and refresh timers, each parsed from the server's relative-time notation.
//
// A timer that fails to parse only costs that one sample: the zone's other
// timer and every other zone still get reported. On top of the per-zone
// gauges, the timers' distribution across zones is summarized.
func (c *zoneStatusCollector) Collect(session knotctl.Session) error {
	err := session.Send(knotctl.Request{Command: knotctl.CmdZoneStatus})
	if err != nil {
		return fmt.Errorf("send zone-status: %w", err)
	}

	tree, err := session.ReceiveTree()
	if err != nil {
		return fmt.Errorf("receive zone-status: %w", err)
	}

	timers := []struct {
		field   string
		desc    *prometheus.Desc
		summary *Summary
	}{
		{"expiration", zoneExpirationDesc, NewSummary()},
		{"refresh", zoneRefreshDesc, NewSummary()},
	}

	for _, zone := range tree.Keys() {
		status := tree[zone]
		if status.IsLeaf() {
			continue
		}

		for _, timer := range timers {
			node, found := status.Children()[timer.field]
			if !found || !node.IsLeaf() {
				continue
			}

			seconds, ok, err := parseStateTime(node.Value())
			if err != nil {
				c.log.Error(err, "parse zone timer",
					"zone", zone, "timer", timer.field)
				continue
			}
			if !ok {
				// not scheduled: no sample.
				continue
			}

			c.metricsC <- prometheus.MustNewConstMetric(
				timer.desc,
				prometheus.GaugeValue,
				float64(seconds),
				zone,
			)

			timer.summary.Insert(float64(seconds))
		}
	}

	for _, timer := range timers {
		if timer.summary.Count() == 0 {
			continue
		}

		c.metricsC <- prometheus.MustNewConstSummary(
			zoneTimerDesc,
			timer.summary.Count(),
			timer.summary.Sum(),
			timer.summary.Quantiles(),
			timer.field,
		)
	}

	return nil
}
