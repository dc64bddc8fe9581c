package lang

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Stringify returns the string form of a runtime value.
//
// Numbers use the shortest decimal representation without exponent, nil is
// the empty string, and maps render as {k: v, ...} with sorted keys.
func Stringify(v any) string {
	switch x := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case map[string]any:
		keys := slices.Sorted(maps.Keys(x))

		var b strings.Builder

		b.WriteByte('{')

		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(Stringify(x[k]))
		}

		b.WriteByte('}')

		return b.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// Finite returns v with every infinite or NaN number replaced by its
// string form ("Infinity", "-Infinity" or "NaN"), descending into maps and
// slices. Maps and slices holding such numbers are copied; v is not
// modified.
func Finite(v any) any {
	switch x := normalize(v).(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return formatNumber(x)
		}

		return v
	case map[string]any:
		if x == nil {
			return x
		}

		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = Finite(e)
		}

		return m
	case []any:
		if x == nil {
			return x
		}

		s := make([]any, len(x))
		for i, e := range x {
			s[i] = Finite(e)
		}

		return s
	default:
		return v
	}
}

// Truthy reports whether v counts as true in a condition.
// nil, false, zero, NaN and the empty string are false; everything else is
// true.
func Truthy(v any) bool {
	switch x := normalize(v).(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// ToNumber converts v to a number. Strings are parsed after trimming
// surrounding space, and booleans are 0 or 1. It reports false when v has
// no numeric interpretation.
func ToNumber(v any) (float64, bool) {
	switch x := normalize(v).(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}

		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)

		return f, err == nil
	default:
		return 0, false
	}
}

// Equal reports whether a and b are equal. A number equals a string that
// parses to the same number; otherwise values of different types are
// unequal, and maps compare element-wise.
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)

	switch x := a.(type) {
	case nil:
		return b == nil
	case float64:
		switch y := b.(type) {
		case float64:
			return x == y
		case string:
			f, ok := ToNumber(y)

			return ok && f == x
		}

		return false
	case string:
		switch y := b.(type) {
		case string:
			return x == y
		case float64:
			f, ok := ToNumber(x)

			return ok && f == y
		}

		return false
	case bool:
		y, ok := b.(bool)

		return ok && x == y
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}

		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}

		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Compare orders a and b. Two strings compare lexically; otherwise both
// operands must convert with [ToNumber]. It reports false when the operands
// are not ordered (including when either is NaN).
func Compare(a, b any) (int, bool) {
	sa, aok := normalize(a).(string)
	sb, bok := normalize(b).(string)

	if aok && bok {
		return strings.Compare(sa, sb), true
	}

	x, ok := ToNumber(a)
	if !ok {
		return 0, false
	}

	y, ok := ToNumber(b)
	if !ok {
		return 0, false
	}

	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	case x == y:
		return 0, true
	default:
		return 0, false
	}
}

// TypeName returns the name of a runtime value's type for messages.
func TypeName(v any) string {
	switch normalize(v).(type) {
	case nil:
		return "nil"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "map"
	default:
		return reflect.TypeOf(v).String()
	}
}
