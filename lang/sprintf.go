package lang

import (
	"fmt"
	"math"
	"strings"
)

// Formatter renders a format statement: template is the stringified format
// operand and arg the evaluated parameter.
type Formatter interface {
	Format(template string, arg any) (string, error)
}

// FormatterFunc adapts a function to [Formatter].
type FormatterFunc func(template string, arg any) (string, error)

// Format calls f.
func (f FormatterFunc) Format(template string, arg any) (string, error) {
	return f(template, arg)
}

// Sprintf is the default [Formatter]. It applies printf verbs from package
// fmt, converting the argument to the type each verb expects: integer verbs
// (d, x, X, o, b, c) receive an int64, float verbs (f, F, e, E, g, G) a
// float64, and every other verb the stringified argument. Every verb in the
// template consumes the same argument.
type Sprintf struct{}

// Format implements [Formatter].
func (Sprintf) Format(template string, arg any) (string, error) {
	verbs, err := scanVerbs(template)
	if err != nil {
		return "", err
	}

	if len(verbs) == 0 {
		return template, nil
	}

	args := make([]any, len(verbs))

	for i, verb := range verbs {
		switch verb {
		case 'd', 'x', 'X', 'o', 'O', 'b', 'c', 'U':
			f, ok := ToNumber(arg)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				return "", fmt.Errorf("%%%c requires a number, got %s", verb, TypeName(arg))
			}

			args[i] = int64(f)
		case 'f', 'F', 'e', 'E', 'g', 'G':
			f, ok := ToNumber(arg)
			if !ok {
				return "", fmt.Errorf("%%%c requires a number, got %s", verb, TypeName(arg))
			}

			args[i] = f
		case 't':
			args[i] = Truthy(arg)
		default:
			args[i] = Stringify(arg)
		}
	}

	return fmt.Sprintf(template, args...), nil
}

// knownVerbs lists the directives [Sprintf] accepts.
const knownVerbs = "dxXoObcUfFeEgGtsqvT"

// scanVerbs returns the verb character of each directive in a printf
// template, skipping %% escapes. Directives that fmt would report inline,
// such as unknown verbs or a trailing '%', are errors.
func scanVerbs(template string) ([]rune, error) {
	var found []rune

	rs := []rune(template)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '%' {
			continue
		}

		i++
		// flags, width and precision
		for i < len(rs) && strings.ContainsRune("+-# 0123456789.", rs[i]) {
			i++
		}

		switch {
		case i >= len(rs):
			return nil, fmt.Errorf("malformed format %q: missing verb", template)
		case rs[i] == '%':
		case strings.ContainsRune(knownVerbs, rs[i]):
			found = append(found, rs[i])
		default:
			return nil, fmt.Errorf("malformed format %q: unsupported verb %%%c", template, rs[i])
		}
	}

	return found, nil
}
