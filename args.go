package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args holds the decoded arguments of a tool call.
type Args map[string]any

// Has reports whether name is present and non-nil.
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns the named argument as a string, or def when absent.
// Numbers and booleans are formatted.
func (a Args) String(name, def string) string {
	v, ok := a[name]
	if !ok || v == nil {
		return def
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Number returns the named argument as a float64. Numeric strings are
// parsed; anything else is a validation error.
func (a Args) Number(name string) (float64, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing argument %q: %w", name, ErrValidation)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("argument %q is not a number: %w", name, ErrValidation)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %q is not a number: %w", name, ErrValidation)
	}
}

// Int returns the named argument as an int. Fractional values are rejected.
func (a Args) Int(name string) (int, error) {
	f, err := a.Number(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("argument %q is not an integer: %w", name, ErrValidation)
	}
	return int(f), nil
}

// Bool returns the named argument as a bool, or def when absent.
func (a Args) Bool(name string, def bool) bool {
	switch x := a[name].(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// Strings returns the named argument as a string slice. A single string is
// split on commas; surrounding whitespace and empty items are dropped.
func (a Args) Strings(name string) []string {
	var out []string
	switch x := a[name].(type) {
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range x {
			if s != "" {
				out = append(out, s)
			}
		}
	case string:
		out = splitList(x)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
