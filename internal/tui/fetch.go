package tui

import (
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/scout/internal/logging"
	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/timerange"
)

// insightsLimit caps the insights tab.
const insightsLimit = 50

// Fetcher is the part of the Scout client the browser uses.
type Fetcher interface {
	ListApps(ctx context.Context, activeSince *time.Time) ([]scout.App, error)
	ListEndpoints(ctx context.Context, appID uint64, rng *timerange.Range) (*scout.Page, error)
	GetInsights(ctx context.Context, appID uint64, limit int) (*scout.Page, error)
	ListMetrics(ctx context.Context, appID uint64) ([]string, error)
	GetMetric(ctx context.Context, appID uint64, metric string, rng *timerange.Range) (*scout.Page, error)
	ListErrorGroups(ctx context.Context, appID uint64, rng *timerange.Range, endpoint string) (*scout.Page, error)
}

// appsLoadedMsg carries the result of the app list fetch.
type appsLoadedMsg struct {
	gen  int
	apps []scout.App
	err  error
}

// tabLoadedMsg carries the result of a tab fetch.
type tabLoadedMsg struct {
	gen     int
	app     scout.App
	tab     Tab
	items   []scout.Record
	refresh bool
	err     error
}

// seriesLoadedMsg carries a metric series for the metrics tab.
type seriesLoadedMsg struct {
	gen    int
	metric string
	series json.RawMessage
	err    error
}

// refreshTickMsg asks for the open tab to be fetched again.
type refreshTickMsg struct {
	gen int
}

func loadApps(ctx context.Context, f Fetcher, gen int) tea.Cmd {
	return func() tea.Msg {
		apps, err := f.ListApps(ctx, nil)
		return appsLoadedMsg{gen: gen, apps: apps, err: err}
	}
}

// loadTab fetches one tab of app for rng.
func loadTab(ctx context.Context, f Fetcher, app scout.App, tab Tab, rng timerange.Range, gen int, refresh bool) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(ctx)
		log.Debug().Ctx(ctx).Str("component", "tui").Uint64("app_id", app.ID).Stringer("tab", tab).Msg("fetching tab")

		msg := tabLoadedMsg{gen: gen, app: app, tab: tab, refresh: refresh}
		msg.items, msg.err = fetchTab(ctx, f, app.ID, tab, rng)
		return msg
	}
}

func fetchTab(ctx context.Context, f Fetcher, appID uint64, tab Tab, rng timerange.Range) ([]scout.Record, error) {
	switch tab {
	case TabInsights:
		page, err := f.GetInsights(ctx, appID, insightsLimit)
		if err != nil {
			return nil, err
		}
		return scout.InsightsFromResults(page.Results)
	case TabMetrics:
		names, err := f.ListMetrics(ctx, appID)
		if err != nil {
			return nil, err
		}
		out := make([]scout.Record, 0, len(names))
		for _, n := range names {
			out = append(out, scout.Record{Label: n})
		}
		return out, nil
	case TabErrors:
		page, err := f.ListErrorGroups(ctx, appID, &rng, "")
		if err != nil {
			return nil, err
		}
		return scout.ErrorGroupsFromRecords(page.Records)
	default:
		page, err := f.ListEndpoints(ctx, appID, &rng)
		if err != nil {
			return nil, err
		}
		eps, err := scout.EndpointsFromResults(page.Results)
		if err != nil {
			return nil, err
		}
		out := make([]scout.Record, 0, len(eps))
		for _, e := range eps {
			out = append(out, e.Record())
		}
		return out, nil
	}
}

// loadSeries fetches metric for app over rng.
func loadSeries(ctx context.Context, f Fetcher, appID uint64, metric string, rng timerange.Range, gen int) tea.Cmd {
	return func() tea.Msg {
		logging.FromContext(ctx).Debug().Ctx(ctx).
			Str("component", "tui").Uint64("app_id", appID).Str("metric", metric).Msg("fetching metric series")

		msg := seriesLoadedMsg{gen: gen, metric: metric}
		page, err := f.GetMetric(ctx, appID, metric, &rng)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.series = page.Results
		return msg
	}
}

func scheduleRefresh(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}
