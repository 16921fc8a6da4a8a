package chrono

import (
	"time"
)

// DateLayout is how every timestamp in the exported JSON is rendered.
const DateLayout = "January 02, 2006 03:04 PM"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse reads a timestamp as the Canvas API returns it.
func Parse(raw string) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Format renders an API timestamp with DateLayout, converted to loc when it
// is not nil. Missing or unparsable timestamps become "".
func Format(raw string, loc *time.Location) string {
	if raw == "" {
		return ""
	}
	t, ok := Parse(raw)
	if !ok {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

// FormatPtr is Format for optional fields.
func FormatPtr(raw *string, loc *time.Location) string {
	if raw == nil {
		return ""
	}
	return Format(*raw, loc)
}

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	Location *time.Location
}

func (s StandardTime) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}
