package collector

import (
	"regexp"
	"strconv"
)

// stateTimeRe is the grammar of a relative zone timer: an optional sign
// followed by optional day, hour, minute and second components, in that
// order. The expression is anchored at both ends, so trailing garbage is
// rejected rather than silently ignored.
var stateTimeRe = regexp.MustCompile(
	`^([+-])?(?:(\d+)D)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`,
)

// parseStateTime converts a zone timer string as reported by zone-status
// into a signed number of seconds.
//
// "pending" and "running" mean the event is imminent or in progress and map
// to 0. "not scheduled" has no value at all: ok is false and the caller must
// not emit a sample. Anything else must match the timer grammar; a match
// with no components at all (including a bare sign) is a valid zero.
func parseStateTime(s string) (seconds int64, ok bool, err error) {
	switch s {
	case "pending", "running":
		return 0, true, nil
	case "not scheduled":
		return 0, false, nil
	}

	m := stateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false, &FormatError{Input: s}
	}

	sign := int64(1)
	if m[1] == "-" {
		sign = -1
	}

	total := 86400*component(m[2]) +
		3600*component(m[3]) +
		60*component(m[4]) +
		component(m[5])

	return sign * total, true, nil
}

// component converts one captured timer component, treating an absent
// capture as zero.
func component(capture string) int64 {
	if capture == "" {
		return 0
	}

	// the capture group only admits digits.
	v, _ := strconv.ParseInt(capture, 10, 64)

	return v
}
