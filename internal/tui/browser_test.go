package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/timerange"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

type fakeFetcher struct {
	apps         []scout.App
	appsErr      error
	results      json.RawMessage
	endpointsErr error
	insights     json.RawMessage
	metrics      []string
	series       json.RawMessage
	seriesErr    error
	errorGroups  []json.RawMessage

	endpointCalls []uint64
	ranges        []timerange.Range
	calls         []string
}

func (f *fakeFetcher) ListApps(context.Context, *time.Time) ([]scout.App, error) {
	return f.apps, f.appsErr
}

func (f *fakeFetcher) ListEndpoints(_ context.Context, appID uint64, rng *timerange.Range) (*scout.Page, error) {
	f.calls = append(f.calls, "endpoints")
	f.endpointCalls = append(f.endpointCalls, appID)
	if rng != nil {
		f.ranges = append(f.ranges, *rng)
	}
	if f.endpointsErr != nil {
		return nil, f.endpointsErr
	}
	return &scout.Page{Results: f.results}, nil
}

func (f *fakeFetcher) GetInsights(_ context.Context, _ uint64, limit int) (*scout.Page, error) {
	f.calls = append(f.calls, "insights:"+strconv.Itoa(limit))
	return &scout.Page{Results: f.insights}, nil
}

func (f *fakeFetcher) ListMetrics(context.Context, uint64) ([]string, error) {
	f.calls = append(f.calls, "metrics")
	return f.metrics, nil
}

func (f *fakeFetcher) GetMetric(_ context.Context, _ uint64, metric string, rng *timerange.Range) (*scout.Page, error) {
	f.calls = append(f.calls, "metric:"+metric)
	if rng != nil {
		f.ranges = append(f.ranges, *rng)
	}
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	return &scout.Page{Results: f.series}, nil
}

func (f *fakeFetcher) ListErrorGroups(_ context.Context, _ uint64, _ *timerange.Range, endpoint string) (*scout.Page, error) {
	f.calls = append(f.calls, "errors"+endpoint)
	return &scout.Page{Records: f.errorGroups}, nil
}

func threeApps() []scout.App {
	return []scout.App{
		{ID: 1, Name: "web", LastReportedAt: "2025-05-31T10:00:00Z"},
		{ID: 2, Name: "worker"},
		{ID: 3, Name: "ghost"},
	}
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		apps: threeApps(),
		results: json.RawMessage(`{"endpoints":[
			{"id":"YQ","name":"GET /old","last_seen":"2025-05-20T00:00:00Z"},
			{"id":"Yg","name":"GET /users","last_seen":"2025-05-31T03:04:05Z"}
		]}`),
		insights: json.RawMessage(`{"n_plus_one":[{"name":"posts#index","created_at":"2025-05-30T00:00:00Z"}]}`),
		metrics:  []string{"apdex", "response_time"},
		series:   json.RawMessage(`[["2025-05-31T00:00:00Z", 10], ["2025-05-31T01:00:00Z", 30]]`),
		errorGroups: []json.RawMessage{
			json.RawMessage(`{"id":9,"message":"boom","last_seen":"2025-05-29T00:00:00Z"}`),
		},
	}
}

func keyType(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func update(t *testing.T, m Browser, msg tea.Msg) (Browser, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	b, ok := next.(Browser)
	require.True(t, ok)
	return b, cmd
}

// loadedBrowser returns a browser that has run its initial app load.
func loadedBrowser(t *testing.T, f *fakeFetcher, opts Options) (Browser, tea.Cmd) {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	m := NewBrowser(context.Background(), f, opts)
	require.Equal(t, ViewStateLoading, m.State())

	var loaded tea.Msg
	for _, msg := range collect(m.Init()) {
		if am, ok := msg.(appsLoadedMsg); ok {
			loaded = am
		}
	}
	require.NotNil(t, loaded)
	return update(t, m, loaded)
}

// finishFetch runs cmd and feeds the tab or series result back into m.
func finishFetch(t *testing.T, m Browser, cmd tea.Cmd) (Browser, tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case tabLoadedMsg, seriesLoadedMsg:
			return update(t, m, msg)
		}
	}
	t.Fatal("no fetch was issued")
	return m, nil
}

// openedBrowser returns a browser showing the first app's initial tab.
func openedBrowser(t *testing.T, f *fakeFetcher, opts Options) Browser {
	t.Helper()
	m, _ := loadedBrowser(t, f, opts)
	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	require.Equal(t, ViewStateEndpointList, m.State())
	return m
}

func labels(items []scout.Record) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestBrowser_InitialLoad(t *testing.T) {
	m, _ := loadedBrowser(t, newFetcher(), Options{})
	assert.Equal(t, ViewStateAppList, m.State())
	assert.Len(t, m.Apps(), 3)
	assert.Equal(t, 0, m.SelectedAppIndex())
}

func TestBrowser_InitialLoadFailure(t *testing.T) {
	f := newFetcher()
	f.appsErr = &scout.HTTPError{Status: 401, Message: "Authentication failed. Check your API key."}

	m, _ := loadedBrowser(t, f, Options{})
	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.ErrorMessage(), "401")

	m, _ = update(t, m, keyRune('x'))
	assert.Equal(t, ViewStateAppList, m.State())
	assert.Empty(t, m.ErrorMessage())
	assert.Empty(t, m.Apps())
}

func TestBrowser_SelectionClamped(t *testing.T) {
	m, _ := loadedBrowser(t, newFetcher(), Options{})

	for range 4 {
		m, _ = update(t, m, keyType(tea.KeyDown))
	}
	assert.Equal(t, 2, m.SelectedAppIndex())

	for range 5 {
		m, _ = update(t, m, keyRune('k'))
	}
	assert.Equal(t, 0, m.SelectedAppIndex())
}

func TestBrowser_EnterLoadsEndpoints(t *testing.T) {
	f := newFetcher()
	m, _ := loadedBrowser(t, f, Options{})
	m, _ = update(t, m, keyRune('j'))

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	require.Equal(t, ViewStateLoading, m.State())
	require.NotNil(t, cmd)

	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Equal(t, []uint64{2}, f.endpointCalls)
	require.Len(t, f.ranges, 1)
	assert.Equal(t, fixedNow, f.ranges[0].To)
	assert.Equal(t, timerange.DefaultSpan, f.ranges[0].Duration())

	assert.Equal(t, TabEndpoints, m.Tab())
	assert.Equal(t, []string{"GET /users", "GET /old"}, labels(m.Items()))
	assert.Equal(t, 0, m.SelectedItemIndex())

	for range 3 {
		m, _ = update(t, m, keyType(tea.KeyDown))
	}
	assert.Equal(t, 1, m.SelectedItemIndex())
}

func TestBrowser_FetchErrorReturnsToAppList(t *testing.T) {
	f := newFetcher()
	f.endpointsErr = &scout.HTTPError{Status: 403, Message: "Forbidden"}
	m, _ := loadedBrowser(t, f, Options{})
	m, _ = update(t, m, keyType(tea.KeyDown))

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	require.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.ErrorMessage(), "403")
	assert.Contains(t, m.View(), "403")

	m, cmd = update(t, m, keyRune('x'))
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateAppList, m.State())
	assert.Empty(t, m.ErrorMessage())
	assert.Equal(t, threeApps(), m.Apps())
	assert.Equal(t, 1, m.SelectedAppIndex())
}

func TestBrowser_EnterWhileLoadingIgnored(t *testing.T) {
	f := newFetcher()
	m, _ := loadedBrowser(t, f, Options{})
	m, first := update(t, m, keyType(tea.KeyEnter))
	gen := m.gen

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, gen, m.gen)
	assert.Equal(t, ViewStateLoading, m.State())

	m, _ = finishFetch(t, m, first)
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Equal(t, []uint64{1}, f.endpointCalls)
}

func TestBrowser_Quit(t *testing.T) {
	f := newFetcher()

	t.Run("app list", func(t *testing.T) {
		m, _ := loadedBrowser(t, f, Options{})
		_, cmd := update(t, m, keyRune('q'))
		assert.True(t, isQuit(cmd))
		_, cmd = update(t, m, keyType(tea.KeyEsc))
		assert.True(t, isQuit(cmd))
	})

	t.Run("endpoint list", func(t *testing.T) {
		m, _ := loadedBrowser(t, f, Options{})
		m, cmd := update(t, m, keyType(tea.KeyEnter))
		m, _ = finishFetch(t, m, cmd)
		require.Equal(t, ViewStateEndpointList, m.State())
		_, cmd = update(t, m, keyRune('q'))
		assert.True(t, isQuit(cmd))
		_, cmd = update(t, m, keyType(tea.KeyEsc))
		assert.True(t, isQuit(cmd))
	})

	t.Run("error", func(t *testing.T) {
		failing := newFetcher()
		failing.appsErr = errors.New("boom")
		m, _ := loadedBrowser(t, failing, Options{})
		require.Equal(t, ViewStateError, m.State())
		_, cmd := update(t, m, keyRune('q'))
		assert.True(t, isQuit(cmd))
		_, cmd = update(t, m, keyType(tea.KeyEsc))
		assert.True(t, isQuit(cmd))
	})

	t.Run("loading", func(t *testing.T) {
		m := NewBrowser(context.Background(), f, Options{})
		require.Equal(t, ViewStateLoading, m.State())
		for _, k := range []tea.KeyMsg{keyRune('q'), keyType(tea.KeyEsc), keyType(tea.KeyCtrlC)} {
			_, cmd := update(t, m, k)
			assert.True(t, isQuit(cmd), k.String())
		}
		_, cmd := update(t, m, keyType(tea.KeyEnter))
		assert.Nil(t, cmd)
	})
}

func TestBrowser_StaleResultDropped(t *testing.T) {
	m, _ := loadedBrowser(t, newFetcher(), Options{})
	m, _ = update(t, m, keyType(tea.KeyEnter))

	m, _ = update(t, m, tabLoadedMsg{gen: m.gen - 1, items: []scout.Record{{Label: "stale"}}})
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Empty(t, m.Items())

	m, _ = update(t, m, seriesLoadedMsg{gen: m.gen - 1, metric: "apdex"})
	assert.Equal(t, ViewStateLoading, m.State())
}

func TestBrowser_BackToAppList(t *testing.T) {
	m, _ := loadedBrowser(t, newFetcher(), Options{Refresh: time.Minute})
	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, tick := finishFetch(t, m, cmd)
	require.NotNil(t, tick)
	gen := m.gen

	back, _ := update(t, m, keyType(tea.KeyBackspace))
	assert.Equal(t, ViewStateAppList, back.State())
	assert.Len(t, back.Apps(), 3)

	back, cmd = update(t, back, refreshTickMsg{gen: gen})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateAppList, back.State())
}

func TestBrowser_Filter(t *testing.T) {
	f := newFetcher()
	m, _ := loadedBrowser(t, f, Options{})

	for _, r := range "WOR" {
		m, _ = update(t, m, keyRune(r))
	}
	assert.Equal(t, "WOR", m.filter.Value())
	require.Equal(t, 1, m.appList.Len())

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, []uint64{2}, f.endpointCalls)

	m, _ = update(t, m, keyType(tea.KeyBackspace))
	require.Equal(t, ViewStateAppList, m.State())
	assert.Equal(t, "WOR", m.filter.Value())

	for range 3 {
		m, _ = update(t, m, keyType(tea.KeyBackspace))
	}
	assert.Empty(t, m.filter.Value())
	assert.Equal(t, 3, m.appList.Len())
}

func TestBrowser_Preselect(t *testing.T) {
	tests := []struct {
		name string
		app  string
		want uint64
	}{
		{name: "by id", app: "3", want: 3},
		{name: "by name", app: "Worker", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFetcher()
			m, cmd := loadedBrowser(t, f, Options{App: tt.app})
			require.Equal(t, ViewStateLoading, m.State())
			app, ok := m.SelectedApp()
			require.True(t, ok)
			assert.Equal(t, tt.want, app.ID)

			m, _ = finishFetch(t, m, cmd)
			assert.Equal(t, ViewStateEndpointList, m.State())
		})
	}

	m, _ := loadedBrowser(t, newFetcher(), Options{App: "missing"})
	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.ErrorMessage(), `"missing" not found`)
	m, _ = update(t, m, keyRune('x'))
	assert.Equal(t, ViewStateAppList, m.State())
}

func TestBrowser_RefreshFailureReturnsToEndpoints(t *testing.T) {
	f := newFetcher()
	m, _ := loadedBrowser(t, f, Options{Refresh: time.Minute})
	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	m, _ = update(t, m, keyType(tea.KeyDown))
	require.Equal(t, 1, m.SelectedItemIndex())

	m, cmd = update(t, m, refreshTickMsg{gen: m.gen})
	require.Equal(t, ViewStateLoading, m.State())

	f.endpointsErr = &scout.HTTPError{Status: 500, Message: "API request failed"}
	m, _ = finishFetch(t, m, cmd)
	require.Equal(t, ViewStateError, m.State())

	m, cmd = update(t, m, keyType(tea.KeyEnter))
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Len(t, m.Items(), 2)
	assert.Equal(t, 1, m.SelectedItemIndex())
	require.NotNil(t, cmd, "refresh must be rescheduled after a failed refresh")

	f.endpointsErr = nil
	m, cmd = update(t, m, refreshTickMsg{gen: m.gen})
	require.Equal(t, ViewStateLoading, m.State())
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Equal(t, []string{"endpoints", "endpoints", "endpoints"}, f.calls)
}

func TestBrowser_NoRefreshWithoutInterval(t *testing.T) {
	f := newFetcher()
	m := openedBrowser(t, f, Options{})
	m, cmd := update(t, m, keyType(tea.KeyCtrlR))
	f.endpointsErr = errors.New("boom")
	m, _ = finishFetch(t, m, cmd)
	require.Equal(t, ViewStateError, m.State())

	m, cmd = update(t, m, keyRune('x'))
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Nil(t, cmd)
}

func TestBrowser_ViewUsesUTC(t *testing.T) {
	m, _ := loadedBrowser(t, newFetcher(), Options{UTC: true})
	view := m.View()
	assert.Contains(t, view, "web")
	assert.Contains(t, view, "2025-05-31 10:00:00 UTC")

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	view = m.View()
	assert.Contains(t, view, "GET /users")
	assert.True(t, strings.Contains(view, "2025-05-31 03:04:05 UTC"))
}

func TestBrowser_SwitchTabs(t *testing.T) {
	f := newFetcher()
	m := openedBrowser(t, f, Options{})

	m, cmd := update(t, m, keyType(tea.KeyRight))
	require.Equal(t, ViewStateLoading, m.State())
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, TabInsights, m.Tab())
	assert.Equal(t, []string{"posts#index"}, labels(m.Items()))

	m, cmd = update(t, m, keyRune('l'))
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, TabMetrics, m.Tab())
	assert.Equal(t, []string{"apdex", "response_time"}, labels(m.Items()))

	m, cmd = update(t, m, keyType(tea.KeyTab))
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, TabErrors, m.Tab())
	assert.Equal(t, []string{"boom"}, labels(m.Items()))
	assert.Contains(t, m.View(), "[Errors]")

	m, cmd = update(t, m, keyType(tea.KeyRight))
	assert.Nil(t, cmd, "cached tabs are not fetched again")
	assert.Equal(t, TabEndpoints, m.Tab())
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Equal(t, []string{"GET /users", "GET /old"}, labels(m.Items()))

	m, cmd = update(t, m, keyRune('h'))
	assert.Nil(t, cmd)
	assert.Equal(t, TabErrors, m.Tab())

	assert.Equal(t, []string{"endpoints", "insights:50", "metrics", "errors"}, f.calls)
}

func TestBrowser_InitialTab(t *testing.T) {
	f := newFetcher()
	m, cmd := loadedBrowser(t, f, Options{App: "web", Tab: TabInsights})
	require.Equal(t, ViewStateLoading, m.State())
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, TabInsights, m.Tab())
	assert.Equal(t, []string{"insights:50"}, f.calls)

	m, cmd = update(t, m, keyType(tea.KeyBackspace))
	assert.Nil(t, cmd)
	require.Equal(t, ViewStateAppList, m.State())
	m, _ = update(t, m, keyRune('j'))
	m, cmd = update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	assert.Equal(t, TabInsights, m.Tab(), "opening another app starts on the configured tab")
	assert.Equal(t, []string{"insights:50", "insights:50"}, f.calls)
}

func TestBrowser_MetricSeries(t *testing.T) {
	f := newFetcher()
	m := openedBrowser(t, f, Options{Tab: TabMetrics, UTC: true})
	assert.Contains(t, m.View(), "Press enter to chart")

	m, _ = update(t, m, keyType(tea.KeyDown))
	m, cmd := update(t, m, keyType(tea.KeyEnter))
	require.Equal(t, ViewStateLoading, m.State())
	m, _ = finishFetch(t, m, cmd)
	require.Equal(t, ViewStateEndpointList, m.State())
	assert.Equal(t, "metric:response_time", f.calls[len(f.calls)-1])
	assert.Equal(t, timerange.DefaultSpan, f.ranges[len(f.ranges)-1].Duration())

	view := m.View()
	assert.Contains(t, view, "latest: 30.00 ms")
	assert.Contains(t, view, "2025-05-31 00:00:00 UTC")

	m, _ = update(t, m, keyType(tea.KeyUp))
	assert.Contains(t, m.View(), "Press enter to chart")
}

func TestBrowser_MetricSeriesFailure(t *testing.T) {
	f := newFetcher()
	f.seriesErr = &scout.HTTPError{Status: 404, Message: "not found"}
	m := openedBrowser(t, f, Options{Tab: TabMetrics})

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	m, _ = finishFetch(t, m, cmd)
	require.Equal(t, ViewStateError, m.State())

	m, _ = update(t, m, keyRune('x'))
	assert.Equal(t, ViewStateEndpointList, m.State())
	assert.Equal(t, TabMetrics, m.Tab())
}

func TestBrowser_EnterOutsideMetricsIgnored(t *testing.T) {
	m := openedBrowser(t, newFetcher(), Options{})
	gen := m.gen
	m, cmd := update(t, m, keyType(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, gen, m.gen)
	assert.Equal(t, ViewStateEndpointList, m.State())
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in   string
		want Tab
	}{
		{"", TabEndpoints},
		{"endpoints", TabEndpoints},
		{"Insights", TabInsights},
		{" metrics ", TabMetrics},
		{"ERRORS", TabErrors},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseTab("traces")
	require.ErrorIs(t, err, ErrUnknownTab)
}

func TestTab_Cycle(t *testing.T) {
	assert.Equal(t, TabInsights, TabEndpoints.next())
	assert.Equal(t, TabEndpoints, TabErrors.next())
	assert.Equal(t, TabErrors, TabEndpoints.prev())
	assert.Equal(t, "Metrics", TabMetrics.String())
	assert.Equal(t, "Tab(7)", Tab(7).String())
}

func TestViewState_String(t *testing.T) {
	assert.Equal(t, "AppList", ViewStateAppList.String())
	assert.Equal(t, "Error", ViewStateError.String())
	assert.Equal(t, "ViewState(9)", ViewState(9).String())
}
