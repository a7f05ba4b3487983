package collector

import (
	"fmt"
	"strconv"
	"strings"
)

// SOA rdata field offsets: primary ns and mailbox occupy 0 and 1, serial 2,
// then the timing values this exporter cares about.
const (
	soaRefreshField    = 3
	soaRetryField      = 4
	soaExpirationField = 5
	soaMinFields       = 6
)

// zoneConfigSamples extracts the refresh, retry and expiration timers out of
// one zone's SOA rdata string, producing exactly three samples labeled by
// zone. Records with fewer than six whitespace-separated fields fail with a
// MalformedRecordError; the caller skips that zone and carries on.
func zoneConfigSamples(zone, rdata string) ([]sample, error) {
	fields := strings.Fields(rdata)
	if len(fields) < soaMinFields {
		return nil, &MalformedRecordError{Zone: zone, Fields: len(fields)}
	}

	out := make([]sample, 0, 3)

	for _, f := range []struct {
		name  string
		field int
	}{
		{"knot_zone_config_refresh", soaRefreshField},
		{"knot_zone_config_retry", soaRetryField},
		{"knot_zone_config_expiration", soaExpirationField},
	} {
		v, err := strconv.ParseFloat(fields[f.field], 64)
		if err != nil {
			return nil, fmt.Errorf(
				"zone %q: parse soa field %d: %w", zone, f.field, err,
			)
		}

		out = append(out, sample{
			name:        f.name,
			help:        "zone timer as configured in the zone's SOA record, in seconds",
			labelNames:  []string{"zone"},
			labelValues: []string{zone},
			value:       v,
		})
	}

	return out, nil
}
