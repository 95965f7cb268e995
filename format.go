package tabdsv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Formattable is implemented by value types the writer can render without
// falling back to fmt.Sprint — anything with its own canonical text form
// (decimal.Decimal-style types from the wider ecosystem are the intended
// audience, not just time.Time).
type Formattable interface {
	FormatText() (string, error)
}

// commaDecimalCultures lists the opaque Culture tags whose convention is a
// comma decimal separator instead of the Go/invariant '.'. Anything not
// listed here formats with '.', matching the try-format routine's default.
var commaDecimalCultures = map[string]struct{}{
	"de": {}, "de-DE": {}, "de-AT": {}, "de-CH": {},
	"fr": {}, "fr-FR": {}, "fr-CA": {},
	"es": {}, "es-ES": {},
	"it": {}, "it-IT": {},
	"nl": {}, "nl-NL": {},
	"ru": {}, "ru-RU": {},
	"pt-BR": {},
}

// applyCultureDecimalSeparator substitutes ',' for '.' in a
// strconv-formatted numeric string when culture names a comma-decimal
// locale. It operates on already-formatted text rather than reimplementing
// float formatting, since the locale only ever affects the separator
// glyph, not digit grouping or precision — culture affects formatting
// only, never parsing or locale-aware rounding.
func applyCultureDecimalSeparator(s, culture string) string {
	if culture == "" {
		return s
	}
	if _, ok := commaDecimalCultures[culture]; !ok {
		return s
	}
	return strings.Replace(s, ".", ",", 1)
}

// FormatValue renders v as the text Writer should place in a field,
// substituting nullValue for a nil input. It is a try-format-in-place
// routine: numeric and temporal kinds are appended directly into scratch
// (reused across calls, avoiding an allocation per field in the common
// case) and only fall back to an allocating stringification
// (formatFallback) for types it doesn't recognize. culture is the opaque
// locale handle from WriterOptions, consulted only for the numeric
// decimal separator.
func FormatValue(scratch *[]byte, v interface{}, nullValue, culture string) (string, error) {
	if v == nil {
		return nullValue, nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		// Emitted as True/False, unquoted — not strconv's lowercase
		// true/false.
		if t {
			return "True", nil
		}
		return "False", nil
	case int:
		*scratch = strconv.AppendInt((*scratch)[:0], int64(t), 10)
		return string(*scratch), nil
	case int64:
		*scratch = strconv.AppendInt((*scratch)[:0], t, 10)
		return string(*scratch), nil
	case int32:
		*scratch = strconv.AppendInt((*scratch)[:0], int64(t), 10)
		return string(*scratch), nil
	case uint64:
		*scratch = strconv.AppendUint((*scratch)[:0], t, 10)
		return string(*scratch), nil
	case float64:
		*scratch = strconv.AppendFloat((*scratch)[:0], t, 'g', -1, 64)
		return applyCultureDecimalSeparator(string(*scratch), culture), nil
	case float32:
		*scratch = strconv.AppendFloat((*scratch)[:0], float64(t), 'g', -1, 32)
		return applyCultureDecimalSeparator(string(*scratch), culture), nil
	case time.Time:
		if t.IsZero() {
			return nullValue, nil
		}
		*scratch = t.AppendFormat((*scratch)[:0], time.RFC3339Nano)
		return string(*scratch), nil
	case Formattable:
		return t.FormatText()
	default:
		return formatFallback(v), nil
	}
}

// formatFallback covers value types FormatValue doesn't special-case,
// using the same %v rendering fmt would.
func formatFallback(v interface{}) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
