package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix starts a REPL command.
const commandPrefix = ":"

// commands are the available REPL commands, without commandPrefix.
var commands = []string{"help", "list", "show", "json", "reset", "clear", "quit"}

// refPrefix starts a constant reference.
const refPrefix = '^'

func isIdentByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// wordBounds returns the identifier around cursor and its byte bounds.
// An empty word at the cursor yields start == end == cursor.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && isIdentByte(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && isIdentByte(input[end]) {
		end++
	}

	return input[start:end], start, end
}

// completionTarget is the kind of name a word may complete to.
type completionTarget int

const (
	completeNone completionTarget = iota
	completeConstant
	completeCommand
)

// targetAt returns what the word starting at start may complete to. A word
// directly after '^' completes to constant names, and the first word of a
// line that starts with ':' completes to commands.
func targetAt(input string, start int) completionTarget {
	switch {
	case start > 0 && input[start-1] == refPrefix:
		return completeConstant

	case start == len(commandPrefix) && strings.HasPrefix(input, commandPrefix):
		return completeCommand

	default:
		return completeNone
	}
}

// complete returns the candidates ranked best-first for the word at cursor,
// with the word's bounds. After a bare '^' every constant is a candidate, in
// declaration order.
func complete(
	input string,
	cursor int,
	constants []string,
) (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(input, cursor)

	var candidates []string

	switch targetAt(input, start) {
	case completeConstant:
		candidates = constants

	case completeCommand:
		candidates = commands

	default:
		return nil, start, end
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, start, end
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate, if any, is highlighted.
func renderCandidateBar(matches fuzzy.Matches, selected, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && (used+w > width || (!last && used+w+reserve > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters in bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
