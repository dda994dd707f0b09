package scout

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/scout/internal/cli/pagination"
	"github.com/rshade/scout/internal/timerange"
)

func TestListApps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps", r.URL.Path)
		writeJSON(t, w, http.StatusOK, ok(map[string]any{"apps": []any{
			map[string]any{"id": 1, "name": "web", "last_reported_at": "2025-05-31T10:00:00Z"},
			map[string]any{"id": 2, "name": "worker", "last_reported_at": "2025-01-01T00:00:00Z"},
			map[string]any{"id": 3, "name": "ghost"},
		}}))
	})

	apps, err := c.ListApps(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, uint64(1), apps[0].ID)
	assert.Equal(t, "web", apps[0].Name)
	assert.JSONEq(t, `{"id":1,"name":"web","last_reported_at":"2025-05-31T10:00:00Z"}`, string(apps[0].Raw))

	since := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	active, err := c.ListApps(context.Background(), &since)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "web", active[0].Name)
}

func TestListApps_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, ok(map[string]any{}))
	})

	apps, err := c.ListApps(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, apps)
	assert.NotNil(t, apps)
}

func TestListMetrics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps/7/metrics", r.URL.Path)
		writeJSON(t, w, http.StatusOK, ok(map[string]any{"availableMetrics": []string{"apdex", "throughput"}}))
	})

	metrics, err := c.ListMetrics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"apdex", "throughput"}, metrics)
}

func TestListEndpoints_DefaultRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps/7/endpoints", r.URL.Path)
		assert.Equal(t, "2025-05-25T12:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-06-01T12:00:00Z", r.URL.Query().Get("to"))
		writeJSON(t, w, http.StatusOK, ok([]any{}))
	})

	_, err := c.ListEndpoints(context.Background(), 7, nil)
	require.NoError(t, err)
}

func TestPathsAndResultKeys(t *testing.T) {
	rng := &timerange.Range{From: testNow.Add(-time.Hour), To: testNow}

	tests := []struct {
		name     string
		wantPath string
		results  map[string]any
		call     func(c *Client) (*Page, error)
		wantJSON string
	}{
		{
			name:     "app",
			wantPath: "/apps/5",
			results:  map[string]any{"app": map[string]any{"id": 5}},
			call:     func(c *Client) (*Page, error) { return c.GetApp(context.Background(), 5) },
			wantJSON: `{"id":5}`,
		},
		{
			name:     "metric",
			wantPath: "/apps/5/metrics/apdex",
			results:  map[string]any{"series": map[string]any{"apdex": []any{}}},
			call: func(c *Client) (*Page, error) {
				return c.GetMetric(context.Background(), 5, "apdex", rng)
			},
			wantJSON: `{"apdex":[]}`,
		},
		{
			name:     "endpoint metric",
			wantPath: "/apps/5/endpoints/ZW5k/metrics/throughput",
			results:  map[string]any{"series": []any{1}},
			call: func(c *Client) (*Page, error) {
				return c.GetEndpointMetric(context.Background(), 5, "ZW5k", "throughput", nil)
			},
			wantJSON: `[1]`,
		},
		{
			name:     "endpoint traces",
			wantPath: "/apps/5/endpoints/ZW5k/traces",
			results:  map[string]any{"traces": []any{}},
			call: func(c *Client) (*Page, error) {
				return c.ListEndpointTraces(context.Background(), 5, "ZW5k", rng)
			},
			wantJSON: `{"traces":[]}`,
		},
		{
			name:     "trace",
			wantPath: "/apps/5/traces/99",
			results:  map[string]any{"trace": map[string]any{"id": 99}},
			call:     func(c *Client) (*Page, error) { return c.GetTrace(context.Background(), 5, 99) },
			wantJSON: `{"id":99}`,
		},
		{
			name:     "error groups",
			wantPath: "/apps/5/error_groups",
			results:  map[string]any{"error_groups": []any{}},
			call: func(c *Client) (*Page, error) {
				return c.ListErrorGroups(context.Background(), 5, nil, "")
			},
			wantJSON: `[]`,
		},
		{
			name:     "error group",
			wantPath: "/apps/5/error_groups/8",
			results:  map[string]any{"error_group": map[string]any{"id": 8}},
			call:     func(c *Client) (*Page, error) { return c.GetErrorGroup(context.Background(), 5, 8) },
			wantJSON: `{"id":8}`,
		},
		{
			name:     "error group errors",
			wantPath: "/apps/5/error_groups/8/errors",
			results:  map[string]any{"errors": []any{}},
			call: func(c *Client) (*Page, error) {
				return c.ListErrorGroupErrors(context.Background(), 5, 8)
			},
			wantJSON: `[]`,
		},
		{
			name:     "insights",
			wantPath: "/apps/5/insights",
			results:  map[string]any{"n_plus_one": []any{}},
			call:     func(c *Client) (*Page, error) { return c.GetInsights(context.Background(), 5, 0) },
			wantJSON: `{"n_plus_one":[]}`,
		},
		{
			name:     "insight by type",
			wantPath: "/apps/5/insights/slow_query",
			results:  map[string]any{"slow_query": []any{}},
			call: func(c *Client) (*Page, error) {
				return c.GetInsight(context.Background(), 5, "slow_query", 3)
			},
			wantJSON: `{"slow_query":[]}`,
		},
		{
			name:     "insights history by type",
			wantPath: "/apps/5/insights/history/memory_bloat",
			results:  map[string]any{"insights": []any{}},
			call: func(c *Client) (*Page, error) {
				return c.GetInsightsHistory(context.Background(), 5, HistoryQuery{
					InsightType: "memory_bloat",
					Page:        pagination.PaginationParams{Page: 2},
				})
			},
			wantJSON: `{"insights":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				writeJSON(t, w, http.StatusOK, ok(tt.results))
			})

			page, err := tt.call(c)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(page.Results))
		})
	}
}

func TestErrorGroups_EndpointFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get("endpoint"))
		assert.False(t, r.URL.Query().Has("from"))
		writeJSON(t, w, http.StatusOK, ok(map[string]any{"error_groups": []any{}}))
	})

	_, err := c.ListErrorGroups(context.Background(), 1, nil, "abc")
	require.NoError(t, err)
}

func TestInsightsHistory_PageMeta(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps/1/insights/history", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("pagination_page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeJSON(t, w, http.StatusOK, ok(map[string]any{"insights": []any{}}))
	})

	page, err := c.GetInsightsHistory(context.Background(), 1, HistoryQuery{
		Limit: 10,
		Page:  pagination.PaginationParams{Page: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.CurrentPage)
	assert.True(t, page.Meta.HasPrevious)
}

func TestInvalidArguments_NoRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })
	ctx := context.Background()

	_, err := c.GetMetric(ctx, 1, "latency", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.GetEndpointMetric(ctx, 1, "ep", "bogus", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.GetInsight(ctx, 1, "cpu_spike", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.GetInsightsHistory(ctx, 1, HistoryQuery{InsightType: "nope"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.GetInsights(ctx, 1, -1)
	require.ErrorIs(t, err, pagination.ErrInvalidPagination)

	assert.False(t, called)
}
