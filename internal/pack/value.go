package pack

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number coerces a decoded JSON value into a finite float64.
//
// Accepted inputs: JSON numbers (including json.Number), Go integer and
// float types, and strings that parse as finite numbers. Rejected: nil,
// booleans, non-numeric strings, NaN/Inf, and every other type. This is
// the only coercion the resolver performs; it must not widen silently.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
