package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Attribute values come either from Go code (string, int, []int64, time.Time)
// or from decoded JSON documents (float64, json.Number, []any, RFC3339 string).
// The helpers below accept both shapes.

func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int, int64, int32, bool:
		return fmt.Sprint(t)
	}
	return ""
}

func ToInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func ToBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b || strings.EqualFold(t, "yes")
	}
	n, ok := ToInt64(v)
	return ok && n != 0
}

// ToIDs reads a relation value (asset or taxonomy ids).
func ToIDs(v any) []int64 {
	switch t := v.(type) {
	case nil:
		return nil
	case []int64:
		return t
	case []any:
		ids := make([]int64, 0, len(t))
		for _, e := range t {
			if n, ok := ToInt64(e); ok {
				ids = append(ids, n)
			}
		}
		return ids
	case []int:
		ids := make([]int64, 0, len(t))
		for _, n := range t {
			ids = append(ids, int64(n))
		}
		return ids
	}
	if n, ok := ToInt64(v); ok {
		return []int64{n}
	}
	return nil
}

func ToTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		if t == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// TableRows is the value of a table attribute.
type TableRows []map[string]any

func ToRows(v any) TableRows {
	switch t := v.(type) {
	case TableRows:
		return t
	case []map[string]any:
		return t
	case []any:
		rows := make(TableRows, 0, len(t))
		for _, e := range t {
			if row, ok := e.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		return rows
	}
	return nil
}

// IsEmpty reports whether an attribute value carries nothing worth emitting.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []int64:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case TableRows:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t == nil || t.IsZero()
	}
	return false
}
