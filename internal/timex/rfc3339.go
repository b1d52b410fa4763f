package timex

import "time"

// Timestamps are persisted as RFC3339Nano strings in UTC so rows stay sortable
// and unambiguous across devices.

// Format renders t for storage.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatPtr renders an optional timestamp; nil stays nil.
func FormatPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Format(*t)
}

// Parse reads a stored timestamp back.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParsePtr reads an optional stored timestamp; empty means nil.
func ParsePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
