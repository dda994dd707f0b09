package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	columnWidth  = 12
	maxRuleWidth = 80
	indentUnit   = "  "
	emptyMarker  = "<empty>"
	missingCell  = "-"
)

// Render writes v in the given format. v is anything encoding/json can marshal,
// including json.RawMessage.
func Render(w io.Writer, format Format, v any) error {
	if format == FormatJSON {
		return renderJSON(w, v)
	}
	return renderPlain(w, v)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderPlain(w io.Writer, v any) error {
	tree, err := toTree(v)
	if err != nil {
		return err
	}
	var b strings.Builder
	p := &plainWriter{b: &b, printer: message.NewPrinter(language.English)}
	p.write(tree, 0)
	if _, err = io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Plain returns the plain rendering of v.
func Plain(v any) (string, error) {
	var buf bytes.Buffer
	if err := renderPlain(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toTree round-trips v through JSON so every input is rendered the same way.
// Numbers stay json.Number to keep their literal text.
func toTree(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err = dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return tree, nil
}

type plainWriter struct {
	b       *strings.Builder
	printer *message.Printer
}

func (p *plainWriter) line(indent int, s string) {
	p.b.WriteString(strings.Repeat(indentUnit, indent))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *plainWriter) write(v any, indent int) {
	switch t := v.(type) {
	case []any:
		p.writeArray(t, indent)
	case map[string]any:
		p.writeObject(t, indent)
	default:
		p.line(indent, scalar(v))
	}
}

func (p *plainWriter) writeArray(arr []any, indent int) {
	if len(arr) == 0 {
		p.line(indent, emptyMarker)
		return
	}
	if first, ok := arr[0].(map[string]any); ok && len(arr) > 1 && len(first) > 0 {
		p.writeTable(arr, sortedKeys(first), indent)
		return
	}
	for i, item := range arr {
		switch item.(type) {
		case []any, map[string]any:
			p.line(indent, fmt.Sprintf("[%d]", i+1))
			p.write(item, indent+1)
		default:
			p.line(indent, scalar(item))
		}
	}
}

// writeTable uses the first row's keys as columns. Rows that are not objects are skipped.
func (p *plainWriter) writeTable(rows []any, keys []string, indent int) {
	header := make([]string, len(keys))
	for i, k := range keys {
		header[i] = pad(k)
	}
	head := strings.Join(header, " ")
	p.line(indent, head)
	p.line(indent, strings.Repeat("-", min(utf8.RuneCountInString(head), maxRuleWidth)))

	count := 0
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}
		cells := make([]string, len(keys))
		for i, k := range keys {
			cell := missingCell
			if val, present := obj[k]; present {
				if s, isScalar := shortScalar(val); isScalar {
					cell = s
				}
			}
			cells[i] = pad(truncate(cell, columnWidth))
		}
		p.line(indent, strings.Join(cells, " "))
		count++
	}
	p.line(indent, p.printer.Sprintf("(%d rows)", count))
}

func (p *plainWriter) writeObject(obj map[string]any, indent int) {
	for _, k := range sortedKeys(obj) {
		val := obj[k]
		switch val.(type) {
		case []any, map[string]any:
			p.line(indent, k+":")
			p.write(val, indent+1)
		default:
			p.line(indent, k+": "+scalar(val))
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// shortScalar formats scalars; objects and arrays report false.
func shortScalar(v any) (string, bool) {
	switch v.(type) {
	case []any, map[string]any:
		return "", false
	default:
		return scalar(v), true
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

// pad right-aligns s to the column width.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= columnWidth {
		return s
	}
	return strings.Repeat(" ", columnWidth-n) + s
}

// truncate flattens newlines and cuts s to max runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}
