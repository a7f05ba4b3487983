package collector

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

type zoneStatsCollector struct {
	metricsC chan<- prometheus.Metric
}

var _ categoryCollector = (*zoneStatsCollector)(nil)

func newZoneStatsCollector(
	metricsC chan<- prometheus.Metric,
) *zoneStatsCollector {
	return &zoneStatsCollector{
		metricsC: metricsC,
	}
}

func (c *zoneStatsCollector) Name() string {
	return "zone-stats"
}

func (c *zoneStatsCollector) Enabled(cfg Config) bool {
	return cfg.ZoneStats
}

// Collect fetches per-zone statistics and republishes every counter. The
// reply nests one level deeper than the global statistics (zone first), so
// each sample additionally carries the zone label.
func (c *zoneStatsCollector) Collect(session knotctl.Session) error {
	err := session.Send(knotctl.Request{Command: knotctl.CmdZoneStats})
	if err != nil {
		return fmt.Errorf("send zone-stats: %w", err)
	}

	tree, err := session.ReceiveTree()
	if err != nil {
		return fmt.Errorf("receive zone-stats: %w", err)
	}

	for _, zone := range tree.Keys() {
		zoneNode := tree[zone]
		if zoneNode.IsLeaf() {
			continue
		}

		samples := flattenStats(
			zoneNode.Children(),
			[]string{"zone"}, []string{zone},
			"per-zone statistics counter reported by knot",
		)
		for _, s := range samples {
			c.metricsC <- s.metric()
		}
	}

	return nil
}
