// Package format turns raw provider values into the display strings carried by
// video records and the player.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// isoPeriod matches periods such as "PT1H2M3S", "PT45S", "P1DT5M" or the bare "1H2M".
var isoPeriod = regexp.MustCompile(`^P?(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration decodes a duration into whole seconds. It accepts the provider's
// period form ("PT4M13S") as well as the display form produced by FormatDuration
// ("4:13", "1:02:03"). Anything it cannot read decodes to 0, which callers treat
// as an unknown duration.
func ParseDuration(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if strings.Contains(raw, ":") {
		return parseClock(raw)
	}

	m := isoPeriod.FindStringSubmatch(strings.ToUpper(raw))
	if m == nil {
		return 0
	}
	total := 0
	for i, unit := range []int{86400, 3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > (math.MaxInt-total)/unit {
			return 0
		}
		total += n * unit
	}
	return total
}

func parseClock(raw string) int {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for i, p := range parts {
		if p == "" {
			return 0
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		// Only the leading component may exceed 59.
		if i > 0 && n >= 60 {
			return 0
		}
		if total > (math.MaxInt-n)/60 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// FormatDuration renders seconds as "M:SS" below one hour and "H:MM:SS" otherwise.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Clock renders player time as "M:SS" without folding minutes into hours.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
