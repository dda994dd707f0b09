package detail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rshade/scout/internal/timerange"
)

const noPoints = "  No time-series points in response."

//nolint:gochecknoglobals // Fixed glyph table.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Point is one sample of a metric series.
type Point struct {
	Time  string
	Value float64
}

// Points extracts the samples of a series result, oldest first. A result is an
// array of [time, value] pairs or {timestamp|time, value} objects, an object
// holding such an array under "points" or "data", or an object whose first
// child (by key) is one of those.
func Points(raw json.RawMessage) []Point {
	var out []Point
	collectPoints(raw, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func collectPoints(raw json.RawMessage, out *[]Point) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}

	var arr []json.RawMessage
	if raw[0] == '[' && json.Unmarshal(raw, &arr) == nil {
		for _, p := range arr {
			if pt, ok := parsePoint(p); ok {
				*out = append(*out, pt)
			}
		}
		return
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return
	}
	for _, k := range []string{"points", "data"} {
		if v, ok := obj[k]; ok && json.Unmarshal(v, &arr) == nil {
			collectPoints(v, out)
			return
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		collectPoints(obj[k], out)
		if len(*out) > 0 {
			return
		}
	}
}

func parsePoint(raw json.RawMessage) (Point, bool) {
	var pair []json.RawMessage
	if json.Unmarshal(raw, &pair) == nil {
		if len(pair) < 2 {
			return Point{}, false
		}
		var ts string
		var v float64
		if json.Unmarshal(pair[0], &ts) != nil || json.Unmarshal(pair[1], &v) != nil {
			return Point{}, false
		}
		return Point{Time: ts, Value: v}, true
	}

	var obj struct {
		Timestamp string   `json:"timestamp"`
		Time      string   `json:"time"`
		Value     *float64 `json:"value"`
	}
	if json.Unmarshal(raw, &obj) != nil || obj.Value == nil {
		return Point{}, false
	}
	ts := obj.Timestamp
	if ts == "" {
		ts = obj.Time
	}
	if ts == "" {
		return Point{}, false
	}
	return Point{Time: ts, Value: *obj.Value}, true
}

// MetricUnit is the display unit for a metric type, or "".
func MetricUnit(metric string) string {
	switch strings.ToLower(strings.TrimSpace(metric)) {
	case "throughput":
		return "RPM"
	case "response_time", "response_time_95th", "queue_time":
		return "ms"
	case "errors":
		return "count"
	default:
		return ""
	}
}

// RenderSeries draws a metric series as a sparkline at most width cells wide,
// followed by the time span and latest/min/max summary.
func RenderSeries(raw json.RawMessage, metric string, width int, utc bool) string {
	points := Points(raw)
	if len(points) == 0 {
		return noPoints
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}

	var b strings.Builder
	b.WriteString("  ")
	for _, p := range downsample(points, max(width-2, 1)) {
		b.WriteRune(spark(p.Value, lo, hi))
	}
	fmt.Fprintf(&b, "\n  %s  to  %s\n",
		timerange.Display(points[0].Time, utc),
		timerange.Display(points[len(points)-1].Time, utc))

	unit := ""
	if u := MetricUnit(metric); u != "" {
		unit = " " + u
	}
	latest := points[len(points)-1].Value
	fmt.Fprintf(&b, "  latest: %.2f%s  min: %.2f%s  max: %.2f%s  points: %d",
		latest, unit, lo, unit, hi, unit, len(points))
	return b.String()
}

func spark(v, lo, hi float64) rune {
	if hi <= lo {
		return sparkBlocks[len(sparkBlocks)/2]
	}
	i := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1)))
	return sparkBlocks[min(max(i, 0), len(sparkBlocks)-1)]
}

// downsample picks at most n evenly spaced points.
func downsample(points []Point, n int) []Point {
	if len(points) <= n {
		return points
	}
	step := float64(len(points)) / float64(n)
	out := make([]Point, n)
	for i := range n {
		out[i] = points[min(int(float64(i)*step), len(points)-1)]
	}
	return out
}
