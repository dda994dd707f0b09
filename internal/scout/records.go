package scout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// Record is a generic list entry: a display label, its sort time and the raw object.
type Record struct {
	Label string
	Time  string
	Raw   json.RawMessage
}

// Record converts the endpoint for a generic list.
func (e Endpoint) Record() Record {
	return Record{Label: e.Name, Time: e.Time, Raw: e.Raw}
}

// InsightsFromResults flattens an insights result, which is either an object of
// kind -> array (n_plus_one, memory_bloat, slow_query) or a bare array, sorted
// newest first. Entries without a name or title are labelled "<kind> #n".
func InsightsFromResults(results json.RawMessage) ([]Record, error) {
	trimmed := bytes.TrimSpace(results)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []Record{}, nil
	}

	out := []Record{}
	if trimmed[0] == '[' {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &DecodeError{Status: http.StatusOK, Err: err}
		}
		for i, item := range items {
			out = append(out, newRecord(item, fmt.Sprintf("Item %d", i+1), "name", "title"))
		}
		sortNewestFirst(out)
		return out, nil
	}

	var kinds map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &kinds); err != nil {
		return nil, &DecodeError{Status: http.StatusOK, Err: err}
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, kind := range names {
		var items []map[string]json.RawMessage
		if json.Unmarshal(kinds[kind], &items) != nil {
			continue
		}
		for i, item := range items {
			out = append(out, newRecord(item, fmt.Sprintf("%s #%d", kind, i+1), "name", "title"))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ErrorGroupsFromRecords labels error groups by message, or name, newest first.
func ErrorGroupsFromRecords(records []json.RawMessage) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for _, raw := range records {
		var item map[string]json.RawMessage
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &DecodeError{Status: http.StatusOK, Err: err}
		}
		out = append(out, newRecord(item, "?", "message", "name"))
	}
	sortNewestFirst(out)
	return out, nil
}

// newRecord labels item by the first non-empty labelKeys field, else fallback.
func newRecord(item map[string]json.RawMessage, fallback string, labelKeys ...string) Record {
	r := Record{Label: fallback, Time: timeField(item)}
	for _, k := range labelKeys {
		if s := stringField(item, k); s != "" {
			r.Label = s
			break
		}
	}
	if raw, err := json.Marshal(item); err == nil {
		r.Raw = raw
	}
	return r
}

func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time > records[j].Time
	})
}
