package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
)

// DefaultIgnore is the token type dropped by the lexer when
// [Lexicon.Ignore] is empty.
const DefaultIgnore = "ignore"

// Pattern matches a single character or a candidate lexeme.
// [*regexp.Regexp] satisfies it.
type Pattern interface {
	MatchString(s string) bool
}

// Scanner selects how a rule consumes the characters after its first one.
type Scanner int

// Scanners.
const (
	// ScanTest greedily consumes characters while Rule.Test matches each
	// next character on its own. A rule without Test yields a
	// single-character token.
	ScanTest Scanner = iota // test
	// ScanQuoted consumes characters until the character that opened the
	// lexeme appears again. The token value excludes both delimiters.
	ScanQuoted // quoted
)

// String returns the scanner name.
func (s Scanner) String() string {
	switch s {
	case ScanTest:
		return "test"
	case ScanQuoted:
		return "quoted"
	default:
		return "Scanner(" + strconv.Itoa(int(s)) + ")"
	}
}

// Rule describes one token type.
//
// A rule claims a token when StartTest matches the token's first character.
// The remaining characters are consumed by Scanner. If Values is non-empty,
// the consumed lexeme must be one of them. KeepLast additionally consumes the
// character that stopped a [ScanTest] scan.
type Rule struct {
	Type      string
	StartTest Pattern
	Test      Pattern
	Values    []string
	Scanner   Scanner
	KeepLast  bool
}

// Lexicon is an ordered list of token rules.
// The first rule whose StartTest accepts a character wins.
type Lexicon struct {
	Ignore string
	Rules  []Rule
}

// ignore returns the token type the lexer drops.
func (l *Lexicon) ignore() string {
	if l.Ignore == "" {
		return DefaultIgnore
	}

	return l.Ignore
}

// Rule returns the rule with the given type.
func (l *Lexicon) Rule(typ string) (Rule, bool) {
	for _, r := range l.Rules {
		if r.Type == typ {
			return r, true
		}
	}

	return Rule{}, false
}

// Validate reports configuration defects: rules without a type or StartTest,
// unknown scanners, and duplicate type names.
func (l *Lexicon) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(l.Rules))

	for i, r := range l.Rules {
		at := []slog.Attr{slog.Int("index", i), slog.String("type", r.Type)}

		switch {
		case r.Type == "":
			errs = append(errs, defect(ErrInvalidRule, "missing type", at[0]))
		case seen[r.Type]:
			errs = append(errs, defect(ErrInvalidRule, "duplicate type", at...))
		}

		seen[r.Type] = true

		if r.StartTest == nil {
			errs = append(errs, defect(ErrInvalidRule, "missing start test", at...))
		}

		if r.Scanner != ScanTest && r.Scanner != ScanQuoted {
			errs = append(errs, defect(ErrInvalidRule, "unknown scanner", at...))
		}
	}

	return errors.Join(errs...)
}

// accepts reports whether value is permitted by the rule's closed set.
func (r Rule) accepts(value string) bool {
	return len(r.Values) == 0 || slices.Contains(r.Values, value)
}
