package knotctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeInsertStatsUnits(t *testing.T) {
	tree := Tree{}

	for _, u := range []unit{
		{typ: unitData, items: map[dataIdx]string{
			idxSection: "server", idxItem: "zone-count", idxData: "2",
		}},
		{typ: unitData, items: map[dataIdx]string{
			idxSection: "mod-stats", idxItem: "request-protocol",
			idxID: "udp4", idxData: "10",
		}},
		{typ: unitData, items: map[dataIdx]string{
			idxSection: "mod-stats", idxItem: "request-protocol",
			idxID: "tcp6", idxData: "3",
		}},
	} {
		tree.insert(u)
	}

	require.Equal(t, []string{"mod-stats", "server"}, tree.Keys())

	zoneCount := tree["server"].Children()["zone-count"]
	require.True(t, zoneCount.IsLeaf())
	assert.Equal(t, "2", zoneCount.Value())

	protocol := tree["mod-stats"].Children()["request-protocol"]
	require.False(t, protocol.IsLeaf())
	assert.Equal(t, []string{"tcp6", "udp4"}, protocol.Children().Keys())
	assert.Equal(t, "10", protocol.Children()["udp4"].Value())
}

func TestTreeInsertZoneStatsUnits(t *testing.T) {
	tree := Tree{}

	tree.insert(unit{typ: unitData, items: map[dataIdx]string{
		idxZone: "example.com.", idxSection: "server",
		idxItem: "queries", idxData: "42",
	}})

	zone := tree["example.com."]
	require.NotNil(t, zone)

	queries := zone.Children()["server"].Children()["queries"]
	assert.Equal(t, "42", queries.Value())
}

func TestTreeInsertBlockUnits(t *testing.T) {
	tree := Tree{}

	for _, u := range []unit{
		{typ: unitData, items: map[dataIdx]string{
			idxZone: "z1", idxType: "expiration", idxData: "+1D",
		}},
		{typ: unitData, items: map[dataIdx]string{
			idxZone: "z1", idxType: "refresh", idxData: "pending",
		}},
	} {
		tree.insert(u)
	}

	status := tree["z1"]
	require.False(t, status.IsLeaf())
	assert.Equal(t, "+1D", status.Children()["expiration"].Value())
	assert.Equal(t, "pending", status.Children()["refresh"].Value())
}

func TestTreeInsertRecordUnits(t *testing.T) {
	tree := Tree{}

	tree.insert(unit{typ: unitData, items: map[dataIdx]string{
		idxZone:  "example.com.",
		idxOwner: "example.com.",
		idxType:  "SOA",
		idxTTL:   "3600",
		idxData:  "ns1.example. admin.example. 1 3600 900 604800 86400",
	}})

	// rdata strings accumulate in arrival order.
	tree.insert(unit{typ: unitExtra, items: map[dataIdx]string{
		idxZone:  "example.com.",
		idxOwner: "example.com.",
		idxType:  "SOA",
		idxData:  "second-record",
	}})

	soa := tree["example.com."].
		Children()["example.com."].
		Children()["SOA"]
	require.False(t, soa.IsLeaf())

	assert.Equal(t, "3600", soa.Children()["ttl"].Value())
	assert.Equal(t, []string{
		"ns1.example. admin.example. 1 3600 900 604800 86400",
		"second-record",
	}, soa.Children()["data"].Values())
}

func TestTreeInsertIgnoresPathlessUnits(t *testing.T) {
	tree := Tree{}

	tree.insert(unit{typ: unitData, items: map[dataIdx]string{
		idxData: "orphan",
	}})

	assert.Empty(t, tree)
}
