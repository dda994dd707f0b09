package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tab is a view of the open app.
type Tab int

// Tabs, in display order.
const (
	TabEndpoints Tab = iota
	TabInsights
	TabMetrics
	TabErrors
	tabCount
)

// ErrUnknownTab is returned by ParseTab.
var ErrUnknownTab = errors.New("unknown tab")

func (t Tab) String() string {
	switch t {
	case TabEndpoints:
		return "Endpoints"
	case TabInsights:
		return "Insights"
	case TabMetrics:
		return "Metrics"
	case TabErrors:
		return "Errors"
	default:
		return "Tab(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseTab parses a tab name case-insensitively. "" is TabEndpoints.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "endpoints":
		return TabEndpoints, nil
	case "insights":
		return TabInsights, nil
	case "metrics":
		return TabMetrics, nil
	case "errors":
		return TabErrors, nil
	default:
		return TabEndpoints, fmt.Errorf("%w %q: must be one of endpoints, insights, metrics, errors", ErrUnknownTab, s)
	}
}

// next returns the following tab, wrapping around.
func (t Tab) next() Tab {
	return (t + 1) % tabCount
}

// prev returns the preceding tab, wrapping around.
func (t Tab) prev() Tab {
	return (t + tabCount - 1) % tabCount
}

// noun is the lowercase plural used in status lines.
func (t Tab) noun() string {
	return strings.ToLower(t.String())
}
