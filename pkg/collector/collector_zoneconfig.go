package collector

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

type zoneConfigCollector struct {
	metricsC chan<- prometheus.Metric
	log      logr.Logger
}

var _ categoryCollector = (*zoneConfigCollector)(nil)

func newZoneConfigCollector(
	metricsC chan<- prometheus.Metric, log logr.Logger,
) *zoneConfigCollector {
	return &zoneConfigCollector{
		metricsC: metricsC,
		log:      log,
	}
}

func (c *zoneConfigCollector) Name() string {
	return "zone-config"
}

func (c *zoneConfigCollector) Enabled(cfg Config) bool {
	return cfg.ZoneConfig
}

// Collect reads each zone's SOA record and republishes the refresh, retry
// and expiration timers configured in it. A zone whose record is malformed
// is skipped; the rest of the zones still get their samples.
func (c *zoneConfigCollector) Collect(session knotctl.Session) error {
	err := session.Send(knotctl.Request{
		Command: knotctl.CmdZoneRead,
		Type:    "SOA",
	})
	if err != nil {
		return fmt.Errorf("send zone-read: %w", err)
	}

	tree, err := session.ReceiveTree()
	if err != nil {
		return fmt.Errorf("receive zone-read: %w", err)
	}

	for _, zone := range tree.Keys() {
		rdata, found := soaData(tree[zone])
		if !found {
			c.log.Info("zone without soa record", "zone", zone)
			continue
		}

		samples, err := zoneConfigSamples(zone, rdata)
		if err != nil {
			c.log.Error(err, "zone config", "zone", zone)
			continue
		}

		for _, s := range samples {
			c.metricsC <- s.metric()
		}
	}

	return nil
}

// soaData digs the first SOA rdata string out of one zone's reply subtree,
// which nests owner -> rtype -> {ttl, data}.
func soaData(zoneNode *knotctl.Node) (string, bool) {
	if zoneNode.IsLeaf() {
		return "", false
	}

	for _, owner := range zoneNode.Children().Keys() {
		ownerNode := zoneNode.Children()[owner]
		if ownerNode.IsLeaf() {
			continue
		}

		soa, found := ownerNode.Children()["SOA"]
		if !found || soa.IsLeaf() {
			continue
		}

		data, found := soa.Children()["data"]
		if !found || len(data.Values()) == 0 {
			continue
		}

		return data.Value(), true
	}

	return "", false
}
