package scout

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Valid metric and insight types.
//
//nolint:gochecknoglobals // Fixed lookup tables.
var (
	MetricTypes  = []string{"apdex", "response_time", "response_time_95th", "errors", "throughput", "queue_time"}
	InsightTypes = []string{"n_plus_one", "memory_bloat", "slow_query"}
)

// ValidateMetric returns ErrInvalidArgument unless metric is one of MetricTypes.
func ValidateMetric(metric string) error {
	if !contains(MetricTypes, metric) {
		return invalidArgument("metric type %q must be one of: %s", metric, strings.Join(MetricTypes, ", "))
	}
	return nil
}

// ValidateInsight returns ErrInvalidArgument unless insight is one of InsightTypes.
func ValidateInsight(insight string) error {
	if !contains(InsightTypes, insight) {
		return invalidArgument("insight type %q must be one of: %s", insight, strings.Join(InsightTypes, ", "))
	}
	return nil
}

// endpointTimeFields are tried in order to find a record's sort time.
//
//nolint:gochecknoglobals // Fixed lookup table.
var endpointTimeFields = []string{"last_seen", "first_seen", "timestamp", "created_at", "time", "reported_at"}

// App is a monitored application.
type App struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	LastReportedAt string `json:"last_reported_at"`
	// Raw is the full record as returned by the API.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw record alongside the typed fields.
func (a *App) UnmarshalJSON(data []byte) error {
	type plain App
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = App(p)
	a.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the raw record when present.
func (a App) MarshalJSON() ([]byte, error) {
	if len(a.Raw) > 0 {
		return a.Raw, nil
	}
	type plain App
	return json.Marshal(plain(a))
}

// Label is the name shown in lists.
func (a App) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return "?"
}

// Endpoint is a route within an app.
type Endpoint struct {
	ID   string
	Name string
	// Time is the first present of last_seen, first_seen, timestamp, created_at, time, reported_at.
	Time string
	Raw  json.RawMessage
}

// MarshalJSON emits the raw record.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(map[string]string{"id": e.ID, "name": e.Name})
}

// EndpointsFromResults extracts endpoints from a results value that is either
// {"endpoints": [...]} or a bare array, sorted newest first.
func EndpointsFromResults(results json.RawMessage) ([]Endpoint, error) {
	var items []map[string]json.RawMessage
	trimmed := bytes.TrimSpace(results)
	switch {
	case len(trimmed) == 0 || string(trimmed) == "null":
		return []Endpoint{}, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &DecodeError{Status: http.StatusOK, Err: err}
		}
	default:
		var wrapped struct {
			Endpoints []map[string]json.RawMessage `json:"endpoints"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, &DecodeError{Status: http.StatusOK, Err: err}
		}
		items = wrapped.Endpoints
	}

	out := make([]Endpoint, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, &DecodeError{Status: http.StatusOK, Err: err}
		}
		name := stringField(item, "name")
		if name == "" {
			name = stringField(item, "transaction_name")
		}
		if name == "" {
			name = "?"
		}
		out = append(out, Endpoint{
			ID:   scalarField(item, "id"),
			Name: name,
			Time: timeField(item),
			Raw:  raw,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time > out[j].Time
	})
	return out, nil
}

// timeField returns the first present of endpointTimeFields, or "".
func timeField(m map[string]json.RawMessage) string {
	for _, f := range endpointTimeFields {
		if t := stringField(m, f); t != "" {
			return t
		}
	}
	return ""
}

func stringField(m map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := m[key]; ok && json.Unmarshal(v, &s) == nil {
		return s
	}
	return ""
}

func scalarField(m map[string]json.RawMessage, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s := literal(v); s != "" {
		return s
	}
	var f float64
	if json.Unmarshal(v, &f) == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
