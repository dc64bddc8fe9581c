package repl

import (
	"slices"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lala/lang"
)

func TestWordBounds_Operators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "upper(fo", 8, "fo", 6, 8},
		{"after_comma", `format("%s", fo`, 15, "fo", 13, 15},
		{"after_brace", "{ fo", 4, "fo", 2, 4},
		{"after_semicolon", "a = 1;fo", 8, "fo", 6, 8},
		{"after_match", "a =~ fo", 7, "fo", 5, 7},
		{"after_logical", "a&&fo", 5, "fo", 3, 5},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "log.time_la", 11, "time_la", 4, 11},
		// Hyphens are the minus operator, never part of a name.
		{"minus", "a-fo", 4, "fo", 2, 4},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"after_minus", "x-a.b.", 6, "a.b"},
		{"underscored_chain", "log.time_layout.", 16, "log.time_layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestCompleter_Candidates(t *testing.T) {
	c := completer{
		grammar: lang.DefaultGrammar(),
		vars: map[string]any{
			"zeta": 1.0,
			"log": map[string]any{
				"level":  "info",
				"format": "text",
			},
		},
	}

	t.Run("top_level", func(t *testing.T) {
		got := c.candidates("")

		if !slices.Equal(got[:2], []string{"log", "zeta"}) {
			t.Errorf("variables first, sorted: got %v", got[:2])
		}

		for _, want := range []string{"if", "upper", "format", "now", "else"} {
			if !slices.Contains(got, want) {
				t.Errorf("candidates missing %q", want)
			}
		}
	})

	t.Run("members", func(t *testing.T) {
		got := c.candidates("log")
		if want := []string{"format", "level"}; !slices.Equal(got, want) {
			t.Errorf("candidates(log) = %v, want %v", got, want)
		}
	})

	t.Run("not_a_map", func(t *testing.T) {
		if got := c.candidates("zeta"); got != nil {
			t.Errorf("candidates(zeta) = %v, want nil", got)
		}
	})

	t.Run("undefined", func(t *testing.T) {
		if got := c.candidates("nope.deeper"); got != nil {
			t.Errorf("candidates(nope.deeper) = %v, want nil", got)
		}
	})
}

func TestCompleter_IsFunction(t *testing.T) {
	c := completer{grammar: lang.DefaultGrammar()}

	tests := []struct {
		name string
		want bool
	}{
		{"upper", true},
		{"format", true},
		{"now", true},
		{"show", true},
		{"if", false},
		{"else", false},
		{"x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.isFunction(tt.name); got != tt.want {
				t.Errorf("isFunction(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{
		{Str: "alpha"}, {Str: "beta"}, {Str: "gamma"}, {Str: "delta"},
	}
	never := func(string) bool { return false }

	if got := renderCandidateBar(nil, 0, false, 80, never); got != "" {
		t.Errorf("no matches rendered %q", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0, never); got != "" {
		t.Errorf("zero width rendered %q", got)
	}

	wide := renderCandidateBar(matches, 0, false, 80, never)
	narrow := renderCandidateBar(matches, 0, false, 12, never)

	if len(narrow) >= len(wide) {
		t.Errorf("narrow bar not truncated: %q", narrow)
	}
}
