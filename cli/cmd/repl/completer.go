package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/lang/token"
)

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the command marker, and wml operator and punctuation
// characters.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', ':',
		'(', ')', '{', '}',
		'+', '-', '*', '/',
		'<', '>', '=', '!',
		',', ';':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary (after a space, start of line, etc.).
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

// candidates returns the completion candidates for input. A line beginning
// with the command marker completes command names. Anything else completes
// bound names, built-in functions, and reserved words.
func candidates(in *lang.Interpreter, input string) []string {
	if modeOf(input) == modeCtrl {
		return commandNames()
	}

	names := in.Env().Names()
	names = append(names, in.Builtins().Names()...)
	names = append(names, token.Keywords()...)

	slices.Sort(names)

	return slices.Compact(names)
}

// isCallable reports whether name is bound to an action or a built-in.
func isCallable(in *lang.Interpreter, name string) bool {
	if v, ok := in.Env().Get(name); ok {
		k := v.Kind()

		return k == object.ActionKind || k == object.BuiltInKind
	}

	_, ok := in.Builtins().Lookup(name)

	return ok
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first) and the word
// boundaries. An empty word has no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	// Only the first word of a command line names the command.
	if modeOf(input) == modeCtrl && wordStart != 1 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates(m.interp, input)), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		selected := m.tabActive && i == m.suggIdx
		callable := modeOf(m.input.Value()) == modeEval && isCallable(m.interp, match.Str)
		rendered := renderCandidate(match, selected, callable)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > m.width && i > 0 {
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
// highlighted. Callable names are displayed with a "()" suffix that is not
// part of the completion.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := suggestionStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
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

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
