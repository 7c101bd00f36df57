package oanda

import (
	"strings"
	"time"
)

const maxFractionDigits = 6

// parseBrokerTime parses an RFC3339 timestamp, truncating sub-second
// precision beyond six fractional digits and preserving the zone offset.
// OANDA emits nanosecond strings Go's parser accepts, but downstream
// storage keys on microseconds.
func parseBrokerTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, truncateFraction(raw, maxFractionDigits))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func truncateFraction(raw string, digits int) string {
	dot := strings.IndexByte(raw, '.')
	if dot < 0 {
		return raw
	}
	end := dot + 1
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	frac := raw[dot+1 : end]
	if len(frac) <= digits {
		return raw
	}
	return raw[:dot+1] + frac[:digits] + raw[end:]
}
