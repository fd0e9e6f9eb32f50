package dotini

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var floatLiteral = regexp.MustCompile(
	`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`,
)

// coerce converts integer literals to int64 and decimal float literals to
// float64. Surrounding whitespace is ignored. Anything else, including hex,
// inf and NaN, is returned unchanged.
func coerce(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}

	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}

	if floatLiteral.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}

	return s
}

// Format returns the text form of a resolved value as it is spliced into
// other values: integers in decimal, floats in their shortest form, nil as
// the empty string.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
