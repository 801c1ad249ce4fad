package format

import (
	"fmt"
	"sync"
	"time"
)

// Display layouts. Datetime display is minute-precision: formatting drops
// seconds, so parse(format(t)) equals t truncated to the minute.
const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
	layoutTime     = "15:04"
)

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the fixed display timezone. All date/datetime display is
// rendered in this zone regardless of the server's local timezone.
func Location() *time.Location {
	locOnce.Do(func() {
		var err error
		loc, err = time.LoadLocation("Asia/Seoul")
		if err != nil {
			loc = time.FixedZone("KST", 9*60*60)
		}
	})
	return loc
}

func formatTime(value any, layout string) string {
	t, ok := coerceTime(value)
	if !ok {
		return ""
	}
	return t.In(Location()).Format(layout)
}

// parseTime converts display text back to a time.Time in UTC. The text is
// interpreted in the fixed display timezone.
func parseTime(text, layout string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, text, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q: %w", text, err)
	}
	return t.UTC(), nil
}

// coerceTime accepts time.Time values and the string encodings a record
// field may carry after a JSON round trip through the store.
func coerceTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, layoutDateTime, layoutDate, layoutTime} {
			if t, err := time.ParseInLocation(layout, v, Location()); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
