package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"unicode/utf8"
)

// FuzzParseString checks that parsing never panics and that every document
// it accepts serializes to valid JSON.
func FuzzParseString(f *testing.F) {
	f.Add("")
	f.Add("{ a = 1 }")
	f.Add("def A = 1;\n{ a = ^A }")
	f.Add(`{ s = "x, y", l = [1, [2]] }`)
	f.Add("/* c */ { a = [\n1\n] } % x")
	f.Add(`{ p = "50\% off" }`)
	f.Add("{ a = [1, 2 }")
	f.Add("[[[[[[]]]]]]")
	f.Add("def = ;")

	f.Fuzz(func(t *testing.T, src string) {
		if !utf8.ValidString(src) {
			t.Skip("invalid UTF-8")
		}

		doc, err := ParseString(context.Background(), src, WithMaxDepth(16))
		if err != nil {
			if doc != nil {
				t.Fatalf("document returned with error %v", err)
			}

			return
		}

		var buf bytes.Buffer
		if err := doc.FormatJSON(context.Background(), &buf, 0); err != nil {
			t.Fatalf("FormatJSON: %v", err)
		}

		if !doc.Empty() && !json.Valid(buf.Bytes()) {
			t.Fatalf("invalid JSON for %q: %s", src, buf.String())
		}
	})
}

// FuzzSplit checks that splitting never panics and never yields items with
// surrounding whitespace.
func FuzzSplit(f *testing.F) {
	f.Add("1, 2, 3")
	f.Add(`"a,b", [c, d]`)
	f.Add("{a = [1}")

	f.Fuzz(func(t *testing.T, body string) {
		items, err := Split(body)
		if err != nil {
			return
		}

		for _, item := range items {
			if len(item) > 0 && (item[0] == ' ' || item[len(item)-1] == ' ') {
				t.Errorf("untrimmed item %q", item)
			}
		}
	})
}
