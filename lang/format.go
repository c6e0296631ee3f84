package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Native converts v to plain Go values: int64, string, []any, and
// [yaml.MapSlice] for dicts so that key order survives serialization.
func (v *Value) Native() any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindInteger:
		return v.Int

	case KindText:
		return v.Text

	case KindList:
		result := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			result = append(result, item.Native())
		}

		return result

	case KindDict:
		result := make(yaml.MapSlice, 0, v.Len())
		for key, val := range v.Entries() {
			result = append(result, yaml.MapItem{Key: key, Value: val.Native()})
		}

		return result

	default:
		return nil
	}
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v *Value) MarshalYAML() (any, error) {
	return v.Native(), nil
}

// MarshalJSON implements json.Marshaler. Dict keys are written in insertion
// order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")

		return nil
	}

	switch v.Kind {
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.Int, 10))

	case KindText:
		return writeJSONString(buf, v.Text)

	case KindList:
		buf.WriteByte('[')

		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

	case KindDict:
		buf.WriteByte('{')

		i := 0
		for key, val := range v.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSONString(buf, key); err != nil {
				return err
			}

			buf.WriteByte(':')

			if err := val.writeJSON(buf); err != nil {
				return err
			}

			i++
		}

		buf.WriteByte('}')

	default:
		return fmt.Errorf("unknown value kind %d", v.Kind)
	}

	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	buf.Write(b)

	return nil
}

// String returns v in single-line native syntax.
func (v *Value) String() string {
	var sb strings.Builder

	_ = formatValue(&sb, v, 0, 0)

	return sb.String()
}

// FormatYAML writes the document as YAML to the writer.
// An indent of 0 selects flow style. Empty documents produce no output.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	if d.Empty() {
		return nil
	}

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, d.Root.Native(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// FormatJSON writes the document as JSON to the writer.
// An indent of 0 selects compact output. Empty documents produce no output.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	if d.Empty() {
		return nil
	}

	jsonData, err := d.Root.MarshalJSON()
	if err != nil {
		return err
	}

	if indent > 0 {
		var buf bytes.Buffer

		err = json.Indent(&buf, jsonData, "", strings.Repeat(" ", indent))
		if err != nil {
			return err
		}

		jsonData = buf.Bytes()
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// Format writes the document in native configuration syntax as a single
// dict statement. An indent of 0 writes it on one line. Empty documents
// produce no output.
//
// Percent signs are escaped, so parsing the output yields an equal document
// as long as no string or key contains a double quote, a block comment
// opener, or (for keys) a comma or '='.
func (d *Document) Format(_ context.Context, w io.Writer, indent int) error {
	if d.Empty() {
		return nil
	}

	if err := formatValue(w, d.Root, indent, 0); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)

	return err
}

// percentEscaper protects literal percent signs from the comment stripper.
var percentEscaper = strings.NewReplacer(string(lineComment), `\%`)

// formatValue formats a value based on its kind.
func formatValue(w io.Writer, v *Value, indent, depth int) error {
	switch v.Kind {
	case KindInteger:
		_, err := fmt.Fprint(w, v.Int)

		return err

	case KindText:
		_, err := fmt.Fprint(w, `"`, percentEscaper.Replace(v.Text), `"`)

		return err

	case KindList:
		return formatList(w, v, indent, depth)

	case KindDict:
		return formatDict(w, v, indent, depth)

	default:
		_, err := fmt.Fprint(w, "<unknown>")

		return err
	}
}

// formatList writes lists of scalars on one line and lists containing
// containers one item per line.
func formatList(w io.Writer, v *Value, indent, depth int) error {
	multiline := indent > 0 && v.Depth() > 1

	if _, err := fmt.Fprint(w, "["); err != nil {
		return err
	}

	for i, item := range v.Items {
		if err := formatSeparator(w, i, multiline, indent, depth+1); err != nil {
			return err
		}

		if err := formatValue(w, item, indent, depth+1); err != nil {
			return err
		}
	}

	return formatClose(w, "]", len(v.Items) > 0 && multiline, indent, depth)
}

// formatDict writes each entry on its own line unless indent is 0.
func formatDict(w io.Writer, v *Value, indent, depth int) error {
	multiline := indent > 0

	if _, err := fmt.Fprint(w, "{"); err != nil {
		return err
	}

	i := 0
	for key, val := range v.Entries() {
		if err := formatSeparator(w, i, multiline, indent, depth+1); err != nil {
			return err
		}

		if !multiline && i == 0 {
			if _, err := fmt.Fprint(w, " "); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprint(w, percentEscaper.Replace(key), " = "); err != nil {
			return err
		}

		if err := formatValue(w, val, indent, depth+1); err != nil {
			return err
		}

		i++
	}

	if !multiline && i > 0 {
		if _, err := fmt.Fprint(w, " "); err != nil {
			return err
		}
	}

	return formatClose(w, "}", i > 0 && multiline, indent, depth)
}

// formatSeparator writes what precedes the i-th item of a container.
func formatSeparator(w io.Writer, i int, multiline bool, indent, depth int) error {
	var sep string

	switch {
	case multiline && i > 0:
		sep = ",\n" + strings.Repeat(" ", depth*indent)
	case multiline:
		sep = "\n" + strings.Repeat(" ", depth*indent)
	case i > 0:
		sep = ", "
	}

	_, err := fmt.Fprint(w, sep)

	return err
}

// formatClose writes the closing bracket of a container.
func formatClose(w io.Writer, bracket string, newline bool, indent, depth int) error {
	if newline {
		bracket = "\n" + strings.Repeat(" ", depth*indent) + bracket
	}

	_, err := fmt.Fprint(w, bracket)

	return err
}
