package goes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp prefixes used in object names.
const (
	startPrefix   = 's'
	endPrefix     = 'e'
	createdPrefix = 'c'
)

// ParseTimestamp parses an object name timestamp field such as
// "s20213652000000" into a UTC instant. The field must start with prefix and
// may end with suffix (e.g. ".nc" on the creation field). The digits are
// YYYYDDDHHMMSS followed by one to six digits of fractional second.
func ParseTimestamp(field string, prefix byte, suffix string) (time.Time, error) {
	bad := func(reason string) (time.Time, error) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %s", ErrMalformedKey, field, reason)
	}

	if len(field) == 0 || field[0] != prefix {
		return bad(fmt.Sprintf("want prefix %q", prefix))
	}
	digits := field[1:]
	if suffix != "" {
		if !strings.HasSuffix(digits, suffix) {
			return bad(fmt.Sprintf("want suffix %q", suffix))
		}
		digits = strings.TrimSuffix(digits, suffix)
	}
	if len(digits) < 14 || len(digits) > 19 {
		return bad("want 14 to 19 digits")
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return bad("non-digit character")
		}
	}

	num := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	year := num(digits[0:4])
	yday := num(digits[4:7])
	hour := num(digits[7:9])
	minute := num(digits[9:11])
	sec := num(digits[11:13])
	frac := digits[13:]

	if yday < 1 || yday > 366 {
		return bad("day of year out of range")
	}
	if hour > 23 || minute > 59 || sec > 59 {
		return bad("time of day out of range")
	}

	// Fraction digits are scaled to nanoseconds: "5" is half a second.
	nsec := num(frac + strings.Repeat("0", 9-len(frac)))

	t := time.Date(year, time.January, 1, hour, minute, sec, nsec, time.UTC).AddDate(0, 0, yday-1)
	if t.Year() != year {
		return bad("day of year out of range")
	}
	return t, nil
}
