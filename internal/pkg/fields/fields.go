// Package fields reads values out of decoded JSON documents whose shape is
// not under our control. Every lookup is nil-safe: a missing or mistyped
// path yields the zero value instead of a panic.
package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Get walks a dotted path ("charges.0.last_transaction.qr_code") through
// nested maps and slices.
func Get(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String returns the first path holding a non-empty scalar, formatted as a string.
func String(doc map[string]any, paths ...string) string {
	for _, p := range paths {
		v, ok := Get(doc, p)
		if !ok {
			continue
		}
		if s := scalar(v); s != "" {
			return s
		}
	}
	return ""
}

// Decimal returns the first path holding a numeric value (number or numeric string).
func Decimal(doc map[string]any, paths ...string) (decimal.Decimal, bool) {
	for _, p := range paths {
		v, ok := Get(doc, p)
		if !ok {
			continue
		}
		if d, ok := toDecimal(v); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

// Merge copies every top-level key of src over dst (shallow overwrite).
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case string:
		if strings.TrimSpace(t) == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
