package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToFloat64 converts various numeric types to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
// Supports: float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64.
// Booleans count as 1 and 0.
func ToFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ToFloat64Slice converts every element of values to float64.
// Unlike a lenient conversion it fails on the first non-numeric element.
func ToFloat64Slice(values []interface{}) ([]float64, error) {
	result := make([]float64, len(values))
	for i, v := range values {
		f, ok := ToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number: %T", i, v)
		}
		result[i] = f
	}
	return result, nil
}

// ParseFloat converts a number or a numeric string to float64
func ParseFloat(v interface{}) (float64, error) {
	if f, ok := ToFloat64(v); ok {
		return f, nil
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float: %w", s, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot convert %T to float", v)
}

// ParseInt converts a number or a decimal integer string to int.
// Fractional numbers are truncated toward zero; fractional strings are rejected.
// Values beyond the int range saturate at math.MaxInt or math.MinInt.
func ParseInt(v interface{}) (int, error) {
	if f, ok := ToFloat64(v); ok {
		switch {
		case math.IsNaN(f) || math.IsInf(f, 0):
			return 0, fmt.Errorf("cannot convert %v to int", f)
		case f >= math.MaxInt:
			return math.MaxInt, nil
		case f <= math.MinInt:
			return math.MinInt, nil
		}
		return int(math.Trunc(f)), nil
	}
	if s, ok := v.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if errors.Is(err, strconv.ErrRange) {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to int: %w", s, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot convert %T to int", v)
}
