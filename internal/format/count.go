package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Count formats a statistic as a magnitude string: "999", "1.5K", "2.5M".
func Count(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatUint(n, 10)
	}
}

// CountString is Count for statistics that arrive as decimal strings.
// Unreadable values count as zero.
func CountString(raw string) string {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return "0"
	}
	return Count(n)
}
