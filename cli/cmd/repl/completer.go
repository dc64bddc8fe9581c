package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lala/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "reset", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// the member-access dot, and operator or punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', ';',
		'(', ')', '{', '}', ',', '"',
		'+', '-', '*', '/',
		'<', '>', '=', '!', '~',
		'&', '|':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted variable path leading up to the current
// word, considering only the contiguous member-access chain. For input
// "x + server.http.ho" with the word "ho", the parent path is "server.http".
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	trimmed := strings.TrimRight(prefix, ".")
	if trimmed == "" || len(trimmed) == len(prefix) {
		return ""
	}

	pos := len(trimmed)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(trimmed[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(trimmed[pos:], ".")
}

// completer produces completion candidates from the session's variables and
// the language's reserved words.
type completer struct {
	grammar *lang.Grammar
	vars    map[string]any
}

// candidates returns the names that complete a word under parent. At the
// top level these are the top-level variables, the reserved words and
// "else". Under a parent they are the keys of the map it names.
func (c completer) candidates(parent string) []string {
	if parent == "" {
		names := slices.Sorted(maps.Keys(c.vars))
		names = append(names, c.grammar.Reserved...)

		return append(names, "else")
	}

	value, ok := lang.NewEnvironment(c.vars).Lookup(lang.ParsePath(parent))
	if !ok {
		return nil
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// isFunction reports whether name is a reserved word whose statement is
// entirely a parenthesized argument list, like upper(x) but not if (x) y.
func (c completer) isFunction(name string) bool {
	i := slices.IndexFunc(c.grammar.Expressions, func(s lang.Statement) bool {
		return s.Value == name
	})
	if i < 0 {
		return false
	}

	steps := c.grammar.Expressions[i].Steps

	return len(steps) > 1 && steps[0].Value == "(" && steps[len(steps)-1].Value == ")"
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot (member access), it returns all
// children as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = m.completer().candidates(parent)

		// After a dot, every member is shown so the user can browse.
		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunction func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunction(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix that is not part
// of the completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
