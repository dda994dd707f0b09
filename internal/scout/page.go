package scout

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rshade/scout/internal/cli/pagination"
)

// envelope is the wrapper around every Scout API response.
type envelope struct {
	Header struct {
		Status struct {
			Code    json.Number `json:"code"`
			Message string      `json:"message"`
		} `json:"status"`
	} `json:"header"`
	Results json.RawMessage `json:"results"`
}

// Page is one decoded response.
type Page struct {
	// Results is the results object, or results[ResultKey] when a key was requested.
	// It is JSON null when absent.
	Results json.RawMessage
	// Records holds the elements when Results is an array.
	Records []json.RawMessage
	// Meta carries the cursors exactly as the API sent them, and the requested page number.
	Meta pagination.PaginationMeta
}

var jsonNull = json.RawMessage("null") //nolint:gochecknoglobals // constant literal

// decodePage parses a successful body into a Page.
func decodePage(body []byte, status int, resultKey string) (*Page, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &DecodeError{Status: status, Err: errors.New("empty response body")}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Status: status, Err: err}
	}

	if code, err := env.Header.Status.Code.Int64(); err == nil && code >= 400 {
		msg := env.Header.Status.Message
		if msg == "" {
			msg = msgUnknownError
		}
		return nil, &HTTPError{Status: int(code), Message: msg}
	}

	page := &Page{Results: jsonNull}
	if len(env.Results) > 0 {
		page.Results = env.Results
	}

	var obj map[string]json.RawMessage
	isObject := json.Unmarshal(page.Results, &obj) == nil && obj != nil
	if isObject {
		page.Meta.Next, page.Meta.Previous = cursors(obj["pagination"])
	}

	if resultKey != "" {
		page.Results = jsonNull
		if isObject {
			if v, ok := obj[resultKey]; ok {
				page.Results = v
			}
		}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(page.Results, &records); err == nil {
		page.Records = records
	}
	return page, nil
}

// cursors reads next/previous cursors from a pagination object. Numeric cursors
// keep their literal text so they round-trip unchanged.
func cursors(raw json.RawMessage) (string, string) {
	if len(raw) == 0 {
		return "", ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", ""
	}
	return firstCursor(fields, "next_cursor", "next"),
		firstCursor(fields, "prev_cursor", "previous_cursor", "previous", "prev")
}

func firstCursor(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if s := literal(v); s != "" {
			return s
		}
	}
	return ""
}

// literal returns a JSON scalar as text: strings unquoted, numbers verbatim, null as "".
func literal(v json.RawMessage) string {
	t := strings.TrimSpace(string(v))
	if t == "" || t == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}
