package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Configuration errors. They abort the single operation that hit them.
	ErrSchemaMismatch           = errors.New("schema mismatch")
	ErrUnsupportedContainerKind = errors.New("unsupported container kind")
	ErrMalformedPath            = errors.New("malformed container path")
	ErrInvalidUploadTarget      = errors.New("invalid upload target")

	// Recoverable errors. Callers log them and leave the field unset.
	ErrMetadataExtractionFailed = errors.New("metadata extraction failed")
	ErrFetchFailed              = errors.New("fetch failed")

	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
)

// ValidationErrors collects attribute level validation messages.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(attribute, format string, args ...any) {
	v[attribute] = append(v[attribute], fmt.Sprintf(format, args...))
}

func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}
