package lang

import (
	"log/slog"
	"strings"
)

// Structural delimiters.
const (
	quote     = '"'
	separator = ','
	assign    = '='
)

// closer maps each opening bracket to its closing bracket.
var closer = map[byte]byte{'{': '}', '[': ']'}

// depthScanner tracks bracket nesting and quoted-string state over a byte
// stream. Inside a string, a backslash escapes the following byte.
type depthScanner struct {
	open    []byte // stack of unclosed opening brackets
	inText  bool
	escaped bool
}

// depth returns the number of unclosed brackets.
func (s *depthScanner) depth() int { return len(s.open) }

// balanced reports whether the scan position is at depth zero and outside
// any string.
func (s *depthScanner) balanced() bool { return len(s.open) == 0 && !s.inText }

// step advances the scanner over ch.
func (s *depthScanner) step(ch byte) *Error {
	if s.inText {
		switch {
		case s.escaped:
			s.escaped = false
		case ch == escape:
			s.escaped = true
		case ch == quote:
			s.inText = false
		}

		return nil
	}

	switch ch {
	case quote:
		s.inText = true

	case '{', '[':
		s.open = append(s.open, ch)

	case '}', ']':
		if len(s.open) == 0 {
			return ErrUnbalancedStructure.With(
				slog.String("unmatched", string(ch)),
			)
		}

		top := s.open[len(s.open)-1]
		if closer[top] != ch {
			return ErrUnbalancedStructure.With(
				slog.String("expected", string(closer[top])),
				slog.String("found", string(ch)),
			)
		}

		s.open = s.open[:len(s.open)-1]
	}

	return nil
}

// feed advances the scanner over every byte of text.
func (s *depthScanner) feed(text string) *Error {
	for i := range len(text) {
		if err := s.step(text[i]); err != nil {
			return err
		}
	}

	return nil
}

// end reports an error if the scan stopped inside a string or with unclosed
// brackets.
func (s *depthScanner) end() *Error {
	switch {
	case s.inText:
		return ErrUnbalancedStructure.With(
			slog.String("unterminated", string(quote)),
		)

	case len(s.open) > 0:
		return ErrUnbalancedStructure.With(
			slog.String("unclosed", string(s.open[len(s.open)-1])),
		)
	}

	return nil
}

// Split splits the body of a list or dict literal (brackets already removed)
// into its top-level items.
//
// Commas nested inside brackets or quoted strings do not split. Items are
// returned trimmed of surrounding whitespace. An empty or blank body yields
// no items. Bodies whose brackets or strings do not balance fail with
// [ErrUnbalancedStructure].
func Split(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	var (
		sc    depthScanner
		items []string
	)

	start := 0

	for i := range len(body) {
		ch := body[i]

		if ch == separator && sc.balanced() {
			items = append(items, strings.TrimSpace(body[start:i]))
			start = i + 1

			continue
		}

		if err := sc.step(ch); err != nil {
			return nil, err.With(slog.String("span", body))
		}
	}

	if err := sc.end(); err != nil {
		return nil, err.With(slog.String("span", body))
	}

	return append(items, strings.TrimSpace(body[start:])), nil
}

// splitPair splits a dict item at its first top-level '=' that is neither
// inside a quoted string nor preceded by a backslash. The key and value are
// returned trimmed.
func splitPair(item string) (key, value string, ok bool) {
	var sc depthScanner

	for i := range len(item) {
		ch := item[i]

		if ch == assign && sc.balanced() && (i == 0 || item[i-1] != escape) {
			return strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+1:]), true
		}

		if sc.step(ch) != nil {
			return "", "", false
		}
	}

	return "", "", false
}
