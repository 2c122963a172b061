package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"podcaster/internal/domain"
)

// ParseDuration accepts whole seconds ("125") or "HH:MM:SS" ("00:02:05").
// Minutes and seconds take one or two digits and may not exceed 59. The
// two part "MM:SS" form is rejected because it is ambiguous.
func ParseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		n, err := parseDigits(parts[0], 0)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s, err)
		}
		return n, nil
	case 3:
		h, err := parseDigits(parts[0], 0)
		if err != nil {
			return 0, fmt.Errorf("duration %q hours: %w", s, err)
		}
		if h > (math.MaxInt64-59*60-59)/3600 {
			return 0, fmt.Errorf("duration %q: hours out of range", s)
		}
		m, err := parseDigits(parts[1], 2)
		if err != nil || m > 59 {
			return 0, fmt.Errorf("duration %q: minutes must be 0-59", s)
		}
		sec, err := parseDigits(parts[2], 2)
		if err != nil || sec > 59 {
			return 0, fmt.Errorf("duration %q: seconds must be 0-59", s)
		}
		return h*3600 + m*60 + sec, nil
	}
	return 0, fmt.Errorf("duration %q: expected seconds or HH:MM:SS", s)
}

// parseDigits parses a non-negative decimal. maxLen of zero means unbounded.
func parseDigits(s string, maxLen int) (int64, error) {
	if s == "" || (maxLen > 0 && len(s) > maxLen) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid number %q", s)
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

// NormalizeDuration converts a stored duration value to seconds. Problems are
// added to errs under the duration attribute and ok is false.
func NormalizeDuration(v any, errs domain.ValidationErrors) (int64, bool) {
	switch d := v.(type) {
	case nil:
		return 0, false
	case int, int32, int64, float64:
		n, _ := domain.ToInt64(d)
		if n < 0 {
			errs.Add(domain.AttrDuration, "must not be negative")
			return 0, false
		}
		return n, true
	}

	s := domain.ToString(v)
	if s == "" {
		return 0, false
	}
	n, err := ParseDuration(s)
	if err != nil {
		errs.Add(domain.AttrDuration, "%s", err.Error())
		return 0, false
	}
	return n, true
}

// FormatDuration renders seconds as HH:MM:SS.
func FormatDuration(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
