package collector

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

type globalStatsCollector struct {
	metricsC chan<- prometheus.Metric
}

var _ categoryCollector = (*globalStatsCollector)(nil)

func newGlobalStatsCollector(
	metricsC chan<- prometheus.Metric,
) *globalStatsCollector {
	return &globalStatsCollector{
		metricsC: metricsC,
	}
}

func (c *globalStatsCollector) Name() string {
	return "global-stats"
}

func (c *globalStatsCollector) Enabled(cfg Config) bool {
	return cfg.GlobalStats
}

// Collect fetches the server-wide statistics tree and republishes every
// counter in it.
func (c *globalStatsCollector) Collect(session knotctl.Session) error {
	err := session.Send(knotctl.Request{Command: knotctl.CmdStats})
	if err != nil {
		return fmt.Errorf("send stats: %w", err)
	}

	tree, err := session.ReceiveTree()
	if err != nil {
		return fmt.Errorf("receive stats: %w", err)
	}

	samples := flattenStats(tree, nil, nil,
		"server-wide statistics counter reported by knot")
	for _, s := range samples {
		c.metricsC <- s.metric()
	}

	return nil
}
