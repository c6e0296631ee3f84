package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

const sampleSource = `
% service definition
def PORT = 8080;
def TAGS = ["web", "prod"];

{
  server = { host = "localhost", port = ^PORT },
  tags = ^TAGS
}
{ note = "100\% ready", empty = [], none = {} }
`

func TestDocument_FormatJSON(t *testing.T) {
	doc := mustParse(t, sampleSource)

	var buf bytes.Buffer
	if err := doc.FormatJSON(context.Background(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	want := `{"server":{"host":"localhost","port":8080},"tags":["web","prod"],` +
		`"note":"100% ready","empty":[],"none":{}}` + "\n"

	if buf.String() != want {
		t.Errorf("got  %s\nwant %s", buf.String(), want)
	}

	buf.Reset()

	if err := doc.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(buf.String(), "{\n  \"server\": {\n    \"host\": \"localhost\",") {
		t.Errorf("unexpected indentation:\n%s", buf.String())
	}

	if !json.Valid(buf.Bytes()) {
		t.Errorf("invalid JSON:\n%s", buf.String())
	}
}

func TestDocument_FormatYAML(t *testing.T) {
	doc := mustParse(t, sampleSource)

	var buf bytes.Buffer
	if err := doc.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, want := range []string{"server:", "  host: localhost", "  port: 8080", "tags:", "web", "prod"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	// Key order follows declaration and merge order.
	if !(strings.Index(out, "server:") < strings.Index(out, "tags:") &&
		strings.Index(out, "tags:") < strings.Index(out, "note:")) {
		t.Errorf("keys out of order:\n%s", out)
	}

	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}

	if back["note"] != "100% ready" {
		t.Errorf("note = %#v", back["note"])
	}

	server, ok := back["server"].(map[string]any)
	if !ok {
		t.Fatalf("server = %#v", back["server"])
	}

	if got := server["port"]; got == nil || toString(got) != "8080" {
		t.Errorf("port = %#v", got)
	}
}

func TestDocument_FormatYAML_Flow(t *testing.T) {
	doc := mustParse(t, `{ a = 1, b = [2, 3] }`)

	var buf bytes.Buffer
	if err := doc.FormatYAML(context.Background(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 || !strings.HasPrefix(out, "{") {
		t.Errorf("flow output should be a single line mapping, got:\n%s", out)
	}
}

func TestDocument_Format(t *testing.T) {
	doc := mustParse(t, sampleSource)

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			"single line",
			0,
			`{ server = { host = "localhost", port = 8080 }, tags = ["web", "prod"], ` +
				`note = "100\% ready", empty = [], none = {} }` + "\n",
		},
		{
			"indented",
			2,
			"{\n" +
				"  server = {\n" +
				"    host = \"localhost\",\n" +
				"    port = 8080\n" +
				"  },\n" +
				"  tags = [\"web\", \"prod\"],\n" +
				"  note = \"100\\% ready\",\n" +
				"  empty = [],\n" +
				"  none = {}\n" +
				"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := doc.Format(context.Background(), &buf, tt.indent); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestDocument_Format_ListOfContainers(t *testing.T) {
	doc := mustParse(t, `{ l = [{ a = 1 }, [2]] }`)

	var buf bytes.Buffer
	if err := doc.Format(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	want := "{\n" +
		"  l = [\n" +
		"    {\n" +
		"      a = 1\n" +
		"    },\n" +
		"    [2]\n" +
		"  ]\n" +
		"}\n"

	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

// Parsing, formatting and parsing again yields the same document.
func TestDocument_Format_RoundTrip(t *testing.T) {
	sources := []string{
		sampleSource,
		`{ a = 1 }`,
		`{ deep = [[[1, "x"]], { k = { j = [] } }] }`,
		`{ "quoted key" = 1, spaced key = "v" }`,
		`{ pct = "a\%b\%c", slash = "a/b", star = "*/" }`,
		"{}",
	}

	for _, src := range sources {
		for _, indent := range []int{0, 2, 4} {
			doc := mustParse(t, src)

			var buf bytes.Buffer
			if err := doc.Format(context.Background(), &buf, indent); err != nil {
				t.Fatal(err)
			}

			again, err := ParseString(context.Background(), buf.String())
			if err != nil {
				t.Fatalf("reparse of %q failed: %v", buf.String(), err)
			}

			if !again.Equal(doc) {
				t.Errorf("round trip changed document:\n in  %s\n out %s", doc.Root, again.Root)
			}
		}
	}
}

func TestDocument_FormatEmpty(t *testing.T) {
	doc := mustParse(t, "def A = 1;")
	ctx := context.Background()

	var buf bytes.Buffer

	for name, format := range map[string]func() error{
		"yaml":   func() error { return doc.FormatYAML(ctx, &buf, 2) },
		"json":   func() error { return doc.FormatJSON(ctx, &buf, 2) },
		"native": func() error { return doc.Format(ctx, &buf, 2) },
	} {
		if err := format(); err != nil {
			t.Errorf("%s: %v", name, err)
		}

		if buf.Len() > 0 {
			t.Errorf("%s: wrote %q for an empty document", name, buf.String())
		}
	}
}

func TestValue_MarshalJSON_Escaping(t *testing.T) {
	v := NewDict().Set(`q"k`, NewText("line\nbreak <tag>"))

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}

	var back map[string]string
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("invalid JSON %s: %v", b, err)
	}

	if back[`q"k`] != "line\nbreak <tag>" {
		t.Errorf("round trip = %#v", back)
	}
}

func toString(v any) string {
	b, _ := json.Marshal(v)

	return string(b)
}
