package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

// String renders a scalar cell as text; nil becomes "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func present(v any) bool {
	return strings.TrimSpace(String(v)) != ""
}

// Decimal parses a numeric cell exactly.
func Decimal(field string, v any) (decimal.Decimal, error) {
	s := strings.TrimSpace(String(v))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &validation.FieldError{Field: field, Value: s, Err: validation.ErrInvalidFormat}
	}
	return d, nil
}

// Int parses a whole number cell; "3.0" is accepted, "3.5" and values
// outside the int64 range are not.
func Int(field string, v any) (int64, error) {
	d, err := Decimal(field, v)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, &validation.FieldError{Field: field, Value: String(v), Err: validation.ErrInvalidFormat}
	}
	return d.IntPart(), nil
}

// IntOr is Int with def for an absent or empty cell.
func IntOr(field string, v any, def int64) (int64, error) {
	if !present(v) {
		return def, nil
	}
	return Int(field, v)
}

// BoolOr accepts true/false/1/0 in any case, def for an absent or empty cell.
func BoolOr(field string, v any, def bool) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if !present(v) {
		return def, nil
	}
	s := strings.TrimSpace(String(v))
	b, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return false, &validation.FieldError{Field: field, Value: s, Err: validation.ErrInvalidFormat}
	}
	return b, nil
}

// List splits a comma separated cell, dropping blank entries.
func List(v any) []string {
	out := []string{}
	for _, part := range strings.Split(String(v), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
