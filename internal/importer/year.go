package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minPlausibleYear = 1900

// ParseYear reads a release year from a tag value such as "2021" or
// "2021-04-03T00:00". Values longer than four characters are truncated and a
// warning is returned. The year must fall between 1900 and next year.
func ParseYear(raw string, now time.Time) (year int, warning string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", false
	}
	if len(raw) > 4 {
		warning = fmt.Sprintf("year %q truncated to %q", raw, raw[:4])
		raw = raw[:4]
	}

	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, joinWarnings(warning, fmt.Sprintf("year %q is not numeric", raw)), false
	}
	if y < minPlausibleYear || y > now.Year()+1 {
		return 0, joinWarnings(warning, fmt.Sprintf("year %d is out of range", y)), false
	}
	return y, warning, true
}

func joinWarnings(first, second string) string {
	if first == "" {
		return second
	}
	return first + "; " + second
}
