package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

func TestMetricName(t *testing.T) {
	assert.Equal(t, "knot_request_protocol", metricName("request-protocol"))
	assert.Equal(t, "knot_zone_count", metricName("zone-count"))

	// already-normalized keys pass through untouched.
	assert.Equal(t, "knot_zone_count", metricName("zone_count"))
}

func TestFlattenStatsMixedShapes(t *testing.T) {
	tree := knotctl.Tree{
		"server": knotctl.NewNode(knotctl.Tree{
			"zone-count": knotctl.NewLeaf("5"),
		}),
		"mod-stats": knotctl.NewNode(knotctl.Tree{
			"request-protocol": knotctl.NewNode(knotctl.Tree{
				"udp4": knotctl.NewLeaf("10"),
				"tcp6": knotctl.NewLeaf("2"),
			}),
		}),
	}

	samples := flattenStats(tree, nil, nil, "help")

	// one sample per terminal numeric value.
	require.Len(t, samples, 3)

	byName := map[string][]sample{}
	for _, s := range samples {
		byName[s.name] = append(byName[s.name], s)
	}

	zoneCount := byName["knot_zone_count"]
	require.Len(t, zoneCount, 1)
	assert.Equal(t, []string{"section"}, zoneCount[0].labelNames)
	assert.Equal(t, []string{"server"}, zoneCount[0].labelValues)
	assert.Equal(t, 5.0, zoneCount[0].value)

	protocols := byName["knot_request_protocol"]
	require.Len(t, protocols, 2)
	for _, s := range protocols {
		assert.Equal(t, []string{"section", "kind"}, s.labelNames)
		assert.Equal(t, "mod-stats", s.labelValues[0])
	}
}

func TestFlattenStatsWithLabelPrefix(t *testing.T) {
	tree := knotctl.Tree{
		"server": knotctl.NewNode(knotctl.Tree{
			"queries": knotctl.NewLeaf("42"),
		}),
	}

	samples := flattenStats(tree, []string{"zone"}, []string{"example.com."}, "help")

	require.Len(t, samples, 1)
	assert.Equal(t, []string{"zone", "section"}, samples[0].labelNames)
	assert.Equal(t, []string{"example.com.", "server"}, samples[0].labelValues)
}

func TestFlattenStatsSkipsUnexpectedShapes(t *testing.T) {
	tree := knotctl.Tree{
		// leaf where a section is expected.
		"stray": knotctl.NewLeaf("1"),
		"server": knotctl.NewNode(knotctl.Tree{
			// non-numeric terminal value.
			"identity": knotctl.NewLeaf("ns1.example.com."),
			// nesting one level too deep.
			"deep": knotctl.NewNode(knotctl.Tree{
				"kind": knotctl.NewNode(knotctl.Tree{
					"deeper": knotctl.NewLeaf("1"),
				}),
			}),
			"zone-count": knotctl.NewLeaf("3"),
		}),
	}

	samples := flattenStats(tree, nil, nil, "help")

	require.Len(t, samples, 1)
	assert.Equal(t, "knot_zone_count", samples[0].name)
	assert.Equal(t, 3.0, samples[0].value)
}
