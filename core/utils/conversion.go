package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt64 converts various types to int64 using explicit type switching.
// Floats are rounded; unparsable values yield 0.
func ToInt64(val any) int64 {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(math.Round(v))
	case float32:
		return int64(math.Round(float64(v)))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return int64(math.Round(f))
	case string:
		n, _ := ParseAmount(v, true)
		return n
	case []byte:
		n, _ := ParseAmount(string(v), true)
		return n
	default:
		n, _ := ParseAmount(fmt.Sprintf("%v", v), true)
		return n
	}
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseAmount parses a human-typed amount such as "2500", "1.5k", "2m", "10.000" or "1,250.50".
// Negative results are clamped to zero unless allowNegative is set.
// The second return value reports whether the text was a number at all.
func ParseAmount(raw string, allowNegative bool) (int64, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0, false
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(text, "k"):
		multiplier = 1_000
		text = strings.TrimSpace(strings.TrimSuffix(text, "k"))
	case strings.HasSuffix(text, "m"):
		multiplier = 1_000_000
		text = strings.TrimSpace(strings.TrimSuffix(text, "m"))
	}

	text = strings.NewReplacer("'", "", "_", "", " ", "").Replace(text)
	dots := strings.Count(text, ".")
	commas := strings.Count(text, ",")
	switch {
	case dots > 0 && commas > 0:
		// The right-most separator is the decimal one.
		if strings.LastIndex(text, ",") > strings.LastIndex(text, ".") {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	case dots > 1:
		text = strings.ReplaceAll(text, ".", "")
	case commas > 1:
		text = strings.ReplaceAll(text, ",", "")
	case dots == 1 && isThousandsGroup(text, "."):
		text = strings.ReplaceAll(text, ".", "")
	default:
		text = strings.ReplaceAll(text, ",", ".")
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f *= multiplier
	if !allowNegative && f < 0 {
		f = 0
	}
	return int64(math.Round(f)), true
}

// isThousandsGroup reports whether a single separator is followed by exactly three digits,
// as in "10.000".
func isThousandsGroup(text, sep string) bool {
	idx := strings.Index(text, sep)
	tail := text[idx+1:]
	if len(tail) != 3 || idx == 0 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
