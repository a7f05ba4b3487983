package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneConfigSamples(t *testing.T) {
	samples, err := zoneConfigSamples(
		"example.com.",
		"ns1.example. admin.example. 1 3600 900 604800 86400",
	)

	require.NoError(t, err)
	require.Len(t, samples, 3)

	values := map[string]float64{}
	for _, s := range samples {
		assert.Equal(t, []string{"zone"}, s.labelNames)
		assert.Equal(t, []string{"example.com."}, s.labelValues)
		values[s.name] = s.value
	}

	assert.Equal(t, map[string]float64{
		"knot_zone_config_refresh":    3600,
		"knot_zone_config_retry":      900,
		"knot_zone_config_expiration": 604800,
	}, values)
}

func TestZoneConfigSamplesRejectsShortRecord(t *testing.T) {
	_, err := zoneConfigSamples("example.com.", "ns1.example. admin.example. 1")

	var recordErr *MalformedRecordError
	require.ErrorAs(t, err, &recordErr)
	assert.Equal(t, "example.com.", recordErr.Zone)
	assert.Equal(t, 3, recordErr.Fields)
}

func TestZoneConfigSamplesRejectsNonNumericField(t *testing.T) {
	_, err := zoneConfigSamples(
		"example.com.",
		"ns1.example. admin.example. 1 soon 900 604800 86400",
	)

	require.Error(t, err)
}
