package collector

import "fmt"

// FormatError reports a zone timer string that matches none of the
// recognized forms.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized timer value %q", e.Input)
}

// MalformedRecordError reports an SOA record with too few fields to carry
// the timing values.
type MalformedRecordError struct {
	Zone   string
	Fields int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf(
		"zone %q: soa record has %d fields, want at least %d",
		e.Zone, e.Fields, soaMinFields,
	)
}
