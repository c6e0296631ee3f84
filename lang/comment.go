package lang

import (
	"log/slog"
	"strings"
)

// Comment delimiters.
const (
	lineComment       = '%'
	escape            = '\\'
	blockCommentOpen  = "/*"
	blockCommentClose = "*/"
)

// sourceLine is a non-blank line of comment-free source text, tagged with the
// 1-based line number it starts on in the original input.
type sourceLine struct {
	no   int
	text string
}

// StripComments removes all comments from text.
//
// A '%' starts a line comment that runs to the end of the line, even inside
// a quoted string; a string literal containing '%' is therefore truncated.
// Write "\%" for a literal percent sign. A block comment runs from "/*" to the
// nearest following "*/" and may span lines. Lines left blank by the removal
// are dropped; all other whitespace is preserved.
func StripComments(text string) (string, error) {
	lines, err := stripLines(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for i, ln := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(ln.text)
	}

	return sb.String(), nil
}

// stripLines removes comments from text and splits the result into non-blank
// lines. Text following the close of a multi-line block comment stays on the
// line where the comment opened.
func stripLines(text string) ([]sourceLine, error) {
	var (
		lines []sourceLine
		cur   strings.Builder
	)

	lineNo := 1 // line of the scan position
	curNo := 1  // line the current output line started on

	flush := func() {
		s := strings.TrimSuffix(cur.String(), "\r")
		if strings.TrimSpace(s) != "" {
			lines = append(lines, sourceLine{no: curNo, text: s})
		}

		cur.Reset()
	}

	for i := 0; i < len(text); {
		ch := text[i]

		switch {
		case ch == escape && i+1 < len(text) && text[i+1] == lineComment:
			cur.WriteByte(lineComment)

			i += 2

		case ch == lineComment:
			for i < len(text) && text[i] != '\n' {
				i++
			}

		case strings.HasPrefix(text[i:], blockCommentOpen):
			end := strings.Index(text[i+len(blockCommentOpen):], blockCommentClose)
			if end < 0 {
				return nil, ErrUnterminatedComment.With(slog.Int("line", lineNo))
			}

			body := text[i : i+len(blockCommentOpen)+end+len(blockCommentClose)]
			lineNo += strings.Count(body, "\n")

			i += len(body)

		case ch == '\n':
			flush()

			lineNo++
			curNo = lineNo

			i++

		default:
			cur.WriteByte(ch)

			i++
		}
	}

	flush()

	return lines, nil
}
