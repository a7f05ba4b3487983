package knotctl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadUnitRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	in := unit{
		typ: unitData,
		items: map[dataIdx]string{
			idxCommand: "zone-read",
			idxZone:    "example.com.",
			idxType:    "SOA",
		},
	}

	require.NoError(t, writeUnit(&buf, in))

	out, err := readUnit(&buf)
	require.NoError(t, err)

	assert.Equal(t, in.typ, out.typ)
	assert.Equal(t, in.items, out.items)
}

func TestWriteReadUnitEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeUnit(&buf, unit{typ: unitEnd}))

	out, err := readUnit(&buf)
	require.NoError(t, err)

	assert.Equal(t, unitEnd, out.typ)
	assert.Empty(t, out.items)
}

func TestWriteReadUnitStreamed(t *testing.T) {
	var buf bytes.Buffer

	units := []unit{
		{typ: unitData, items: map[dataIdx]string{
			idxSection: "server", idxItem: "zone-count", idxData: "2",
		}},
		{typ: unitData, items: map[dataIdx]string{
			idxSection: "server", idxItem: "uptime", idxData: "3600",
		}},
		{typ: unitEnd},
	}

	for _, u := range units {
		require.NoError(t, writeUnit(&buf, u))
	}

	// units come back one at a time, in order, off the same stream.
	for _, want := range units {
		got, err := readUnit(&buf)
		require.NoError(t, err)
		assert.Equal(t, want.typ, got.typ)

		for idx, v := range want.items {
			assert.Equal(t, v, got.items[idx])
		}
	}
}

func TestReadUnitRejectsTruncatedFrames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUnit(&buf, unit{
		typ:   unitData,
		items: map[dataIdx]string{idxData: "value"},
	}))

	whole := buf.Bytes()

	for _, cut := range []int{1, 3, len(whole) - 1} {
		_, err := readUnit(bytes.NewReader(whole[:cut]))
		require.Error(t, err)
	}
}

func TestReadUnitRejectsUnknownItemIndex(t *testing.T) {
	// frame: length 5, type DATA, item index 0x7f with a one-byte value.
	raw := []byte{0x00, 0x05, byte(unitData), 0x7f, 0x00, 0x01, 'x'}

	_, err := readUnit(bytes.NewReader(raw))
	require.Error(t, err)
}
