package sheetdb

import (
	"fmt"
	"math"
	"strconv"
)

// DecodeCell converts a raw cell string into the Go value dictated by
// the column type. Auto columns guess: anything that parses as a finite
// number comes back as float64, everything else as string. An empty
// cell is always the empty string.
func DecodeCell(raw string, typ ColumnType) any {
	if raw == "" {
		return ""
	}
	switch typ {
	case TypeString:
		return raw
	case TypeNumber:
		if f, ok := parseFinite(raw); ok {
			return f
		}
		return raw
	default:
		if f, ok := parseFinite(raw); ok {
			return f
		}
		return raw
	}
}

// EncodeCell converts a Go value into the cell string written to the
// backing sheet. nil becomes the empty string.
func EncodeCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// valuesEqual compares two projected values for strict equality.
// Numbers compare numerically regardless of their Go type; everything
// else compares by string rendering.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if isNumeric(a) && isNumeric(b) {
		return toFloat64(a) == toFloat64(b)
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// lessValue is the total order used by List's OrderBy sort: numbers
// order among themselves, strings order lexically, and numbers sort
// before strings when a column holds both.
func lessValue(a, b any) bool {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && bn:
		return toFloat64(a) < toFloat64(b)
	case an:
		return true
	case bn:
		return false
	default:
		return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}
