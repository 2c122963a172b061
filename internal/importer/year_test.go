package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseYear(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		in       string
		want     int
		ok       bool
		truncate bool
	}{
		{"plain", "2021", 2021, true, false},
		{"iso date", "2021-04-03T00:00", 2021, true, true},
		{"padded", "  1999 ", 1999, true, false},
		{"next year", "2025", 2025, true, false},
		{"too far ahead", "2026", 0, false, false},
		{"zeros", "0000-01-01", 0, false, false},
		{"before 1900", "1899", 0, false, false},
		{"not numeric", "Spring 2021", 0, false, false},
		{"empty", "", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warning, ok := ParseYear(tt.in, now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if tt.truncate {
				assert.Contains(t, warning, "truncated")
			}
			if !tt.ok && tt.in != "" {
				assert.NotEmpty(t, warning)
			}
		})
	}
}

func TestParseYear_KeepsTruncationWarningOnRejection(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, warning, ok := ParseYear("MMXX-01", now)
	assert.False(t, ok)
	assert.Contains(t, warning, "truncated")
	assert.Contains(t, warning, "not numeric")

	_, warning, ok = ParseYear("1850-01-01", now)
	assert.False(t, ok)
	assert.Contains(t, warning, "truncated")
	assert.Contains(t, warning, "out of range")
}
