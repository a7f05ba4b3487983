package collector

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

// namespace is the prefix of every metric derived from server statistics.
const namespace = "knot_"

// sample is one flattened statistic, ready to be turned into a gauge.
type sample struct {
	name        string
	help        string
	labelNames  []string
	labelValues []string
	value       float64
}

func (s sample) metric() prometheus.Metric {
	return prometheus.MustNewConstMetric(
		prometheus.NewDesc(s.name, s.help, s.labelNames, nil),
		prometheus.GaugeValue,
		s.value,
		s.labelValues...,
	)
}

// metricName derives a metric name from a statistics item key: dashes
// become underscores and the namespace prefix is applied.
func metricName(item string) string {
	return namespace + strings.ReplaceAll(item, "-", "_")
}

// flattenStats walks a statistics tree of shape section -> item -> value,
// where each item's value is either a terminal counter or one more mapping
// from kind to counter, and emits one sample per terminal numeric value.
//
// The shape is detected structurally per item, not by schema: both forms
// occur within one reply. Terminal items get a single `section` label;
// kind-split items get one sample per kind, labeled `section` and `kind`,
// all sharing the item's metric name. Leaves that do not parse as numbers,
// and unexpectedly deep nesting, are skipped.
//
// prefixNames/prefixValues prepend extra labels to every sample; the
// zone-stats reply nests one level deeper and passes the zone here.
func flattenStats(tree knotctl.Tree, prefixNames, prefixValues []string, help string) []sample {
	var out []sample

	labels := func(extra ...string) ([]string, []string) {
		names := append(append([]string{}, prefixNames...), "section")
		values := append([]string{}, prefixValues...)
		if len(extra) > 1 {
			names = append(names, "kind")
		}

		return names, append(values, extra...)
	}

	for _, section := range tree.Keys() {
		sectionNode := tree[section]
		if sectionNode.IsLeaf() {
			continue
		}

		for _, item := range sectionNode.Children().Keys() {
			itemNode := sectionNode.Children()[item]
			name := metricName(item)

			if itemNode.IsLeaf() {
				v, err := strconv.ParseFloat(itemNode.Value(), 64)
				if err != nil {
					continue
				}

				names, values := labels(section)
				out = append(out, sample{name, help, names, values, v})

				continue
			}

			for _, kind := range itemNode.Children().Keys() {
				kindNode := itemNode.Children()[kind]
				if !kindNode.IsLeaf() {
					continue
				}

				v, err := strconv.ParseFloat(kindNode.Value(), 64)
				if err != nil {
					continue
				}

				names, values := labels(section, kind)
				out = append(out, sample{name, help, names, values, v})
			}
		}
	}

	return out
}
