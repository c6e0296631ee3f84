package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// statement is one top-level declaration or data literal, with the line it
// starts on.
type statement struct {
	line int
	text string
}

// statements groups comment-free lines into top-level statements.
//
// Each line starts a new statement unless the previous statement is still
// open, that is, it has unclosed brackets or an unterminated string. Lines of
// an open statement are trimmed and joined with single spaces until the
// cumulative depth returns to zero.
func statements(lines []sourceLine) ([]statement, error) {
	var (
		out   []statement
		buf   []string
		start int
		sc    depthScanner
	)

	for _, ln := range lines {
		text := strings.TrimSpace(ln.text)

		if len(buf) == 0 {
			start = ln.no
		}

		buf = append(buf, text)

		if err := sc.feed(text); err != nil {
			return nil, err.With(slog.Int("line", ln.no))
		}

		if sc.balanced() {
			out = append(out, statement{line: start, text: strings.Join(buf, " ")})
			buf = buf[:0]
		}
	}

	if len(buf) > 0 {
		return nil, sc.end().With(
			slog.Int("line", start),
			slog.String("span", ellipsize(strings.Join(buf, " "), maxSpanLen)),
		)
	}

	return out, nil
}

// Statements returns the top-level statements of text, in order, with
// comments removed and the lines of multi-line statements joined by single
// spaces. The statements are not parsed.
func Statements(text string) ([]string, error) {
	lines, err := stripLines(text)
	if err != nil {
		return nil, err
	}

	stmts, err := statements(lines)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(stmts))
	for i, st := range stmts {
		out[i] = st.text
	}

	return out, nil
}

// Pending reports whether text ends inside an open statement, i.e. a list or
// dict literal, string or block comment that has not been closed yet.
//
// It lets line-oriented callers decide whether to read another line before
// parsing. A closing bracket without a matching opener is reported as
// [ErrUnbalancedStructure].
func Pending(text string) (bool, error) {
	lines, err := stripLines(text)
	if err != nil {
		if errors.Is(err, ErrUnterminatedComment) {
			return true, nil
		}

		return false, err
	}

	var sc depthScanner

	for _, ln := range lines {
		if err := sc.feed(strings.TrimSpace(ln.text)); err != nil {
			return false, err.With(slog.Int("line", ln.no))
		}
	}

	return !sc.balanced(), nil
}
