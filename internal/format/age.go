package format

import (
	"fmt"
	"math"
	"time"
)

const day = 24 * time.Hour

// RelativeAge describes how long ago published was, relative to now, in day,
// 30-day month and 365-day year buckets.
func RelativeAge(published, now time.Time) string {
	diff := now.Sub(published)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(day)))

	switch {
	case days == 1:
		return "1 day ago"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

// RelativeAgeString parses an RFC 3339 timestamp and formats it with RelativeAge.
// Unparseable timestamps yield an empty string.
func RelativeAgeString(raw string, now time.Time) string {
	published, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}
	return RelativeAge(published, now)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
