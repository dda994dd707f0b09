package detail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rshade/scout/internal/timerange"
)

const (
	maxKeyWidth = 24
	noData      = "  (no data)"
	nullValue   = "—"
)

// timeKeys are rendered through timerange.Display in addition to any *_at key.
//
//nolint:gochecknoglobals // Fixed lookup table.
var timeKeys = map[string]bool{
	"last_seen":  true,
	"first_seen": true,
	"timestamp":  true,
	"time":       true,
}

// Render formats the top-level fields of a JSON object, sorted by key.
// Nested values are summarized. Timestamps are shown in UTC when utc is set,
// otherwise in the local zone.
func Render(raw json.RawMessage, utc bool) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || len(obj) == 0 {
		return noData
	}

	keys := make([]string, 0, len(obj))
	width := 0
	for k := range obj {
		keys = append(keys, k)
		width = max(width, utf8.RuneCountInString(k))
	}
	sort.Strings(keys)
	width = min(width, maxKeyWidth)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := k
		if r := []rune(k); len(r) > width {
			label = string(r[:width])
		}
		fmt.Fprintf(&b, "  %-*s  %s", width, label, value(k, obj[k], utc))
	}
	return b.String()
}

func value(key string, v any, utc bool) string {
	switch t := v.(type) {
	case nil:
		return nullValue
	case string:
		if timeKeys[key] || strings.HasSuffix(key, "_at") {
			return timerange.Display(t, utc)
		}
		return strings.ReplaceAll(t, "\n", " ")
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprint(t)
	case []any:
		return fmt.Sprintf("[%d items]", len(t))
	case map[string]any:
		return "{…}"
	default:
		return fmt.Sprint(t)
	}
}
