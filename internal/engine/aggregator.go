package engine

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"pivotreport/internal/models"
)

// cellStats accumulates every value that lands in one (row, column) cell.
// Running sum/count/min/max give the same answers as reducing the full
// value list, so no per-cell slices are kept.
type cellStats struct {
	Sum   float64
	Count int
	Min   float64
	Max   float64
}

func (s *cellStats) add(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Sum += v
	s.Count++
}

// Aggregate reduces the cell with the given function. Empty cells are 0 for
// every function. Unknown names fall back to sum.
func (s cellStats) Aggregate(agg models.Aggregation) float64 {
	switch agg {
	case models.AggCount:
		return float64(s.Count)
	case models.AggAvg:
		if s.Count == 0 {
			return 0
		}
		return s.Sum / float64(s.Count)
	case models.AggMin:
		if s.Count == 0 {
			return 0
		}
		return s.Min
	case models.AggMax:
		if s.Count == 0 {
			return 0
		}
		return s.Max
	default:
		return s.Sum
	}
}

// toNumber reads a measure value. Numbers pass through; strings are read up
// to the end of their leading decimal prefix, so "100 USD" is 100 and
// "1,000" is 1. Anything unreadable or non-finite degrades to 0.
func toNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case interface{ Float64() (float64, error) }: // json.Number
		f = parseDecimal(fmt.Sprint(n))
	case string:
		f = parseDecimal(n)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseDecimal parses the longest leading [sign]digits[.digits][e[sign]digits]
// prefix of s. Words such as "inf" and "NaN" and digit separators are not part
// of a decimal.
func parseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for ; k < len(s) && isDigit(s[k]); k++ {
		}
		if k > j {
			end = k
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// labelOf stringifies a dimension value, substituting placeholder for
// missing or empty values.
func labelOf(v any, placeholder string) string {
	var s string
	switch x := v.(type) {
	case nil:
		return placeholder
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		s = strconv.FormatBool(x)
	case interface{ String() string }:
		s = x.String()
	default:
		// Remaining integer kinds and named string types.
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			s = rv.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			s = strconv.FormatInt(rv.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			s = strconv.FormatUint(rv.Uint(), 10)
		case reflect.Float32, reflect.Float64:
			s = strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		default:
			return placeholder
		}
	}
	if s == "" {
		return placeholder
	}
	return s
}
