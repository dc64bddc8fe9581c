package lang

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzLanguage runs arbitrary text through the whole pipeline. Every failure
// must be one of the documented error kinds.
func FuzzLanguage(f *testing.F) {
	f.Add("x = 1 + 2 * 3")
	f.Add(`s = upper("hi") + format("%d", 3)`)
	f.Add("if (a > 1) { b = 2 } else { b = 3 }")
	f.Add(`n =~ "(["`)
	f.Add("((((")
	f.Add("-{ a = 1 }")
	f.Add(`"unterminated`)
	f.Add("a.b.c = d.e || now()")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()

		vars := map[string]any{"a": 2, "d": map[string]any{"e": "x"}}
		l := Default().With(WithClock(FixedClock(time.Unix(0, 0))))

		_, err := l.Run(ctx, input, vars)
		if err == nil {
			return
		}

		if !errors.Is(err, ErrLex) && !errors.Is(err, ErrParse) &&
			!errors.Is(err, ErrInterpret) {
			t.Errorf("unclassified error for %q: %v", input, err)
		}
	})
}

func BenchmarkLanguage_Run(b *testing.B) {
	const src = `if (n > 1) { s = format("%d items", n) } else { s = "one item" }`

	l := Default()

	b.Run("parse each time", func(b *testing.B) {
		for b.Loop() {
			if _, err := l.Run(b.Context(), src, map[string]any{"n": 3}); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("compiled", func(b *testing.B) {
		p, err := l.Compile(b.Context(), src)
		if err != nil {
			b.Fatal(err)
		}

		for b.Loop() {
			if _, err := p.Run(b.Context(), map[string]any{"n": 3}); err != nil {
				b.Fatal(err)
			}
		}
	})
}
