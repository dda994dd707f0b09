package scout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/scout/internal/cli/pagination"
	"github.com/rshade/scout/internal/timerange"
)

func appPath(appID uint64, rest ...string) string {
	var b strings.Builder
	b.WriteString("/apps/")
	b.WriteString(strconv.FormatUint(appID, 10))
	for _, r := range rest {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(r))
	}
	return b.String()
}

func limitQuery(limit int) (url.Values, error) {
	q := url.Values{}
	if limit == 0 {
		return q, nil
	}
	if err := pagination.ValidateLimit(limit); err != nil {
		return nil, err
	}
	q.Set(pagination.ParamLimit, strconv.Itoa(limit))
	return q, nil
}

// orDefault returns rng, or the default window ending now.
func (c *Client) orDefault(rng *timerange.Range) *timerange.Range {
	if rng != nil {
		return rng
	}
	r := timerange.Default(timerange.DefaultSpan, c.now())
	return &r
}

// ListApps returns all apps. With activeSince set, only apps whose
// last_reported_at is at or after it are kept.
func (c *Client) ListApps(ctx context.Context, activeSince *time.Time) ([]App, error) {
	page, err := c.FetchPage(ctx, Request{Path: "/apps", ResultKey: "apps"})
	if err != nil {
		return nil, err
	}

	var apps []App
	if err = json.Unmarshal(page.Results, &apps); err != nil {
		return nil, &DecodeError{Status: http.StatusOK, Err: err}
	}
	if apps == nil {
		apps = []App{}
	}
	if activeSince == nil {
		return apps, nil
	}

	filtered := make([]App, 0, len(apps))
	for _, a := range apps {
		t, parseErr := timerange.ParseTime(a.LastReportedAt)
		if parseErr != nil {
			continue
		}
		if !t.Before(*activeSince) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// GetApp returns one app.
func (c *Client) GetApp(ctx context.Context, appID uint64) (*Page, error) {
	return c.FetchPage(ctx, Request{Path: appPath(appID), ResultKey: "app"})
}

// ListMetrics returns the metric types available for an app.
func (c *Client) ListMetrics(ctx context.Context, appID uint64) ([]string, error) {
	page, err := c.FetchPage(ctx, Request{Path: appPath(appID, "metrics"), ResultKey: "availableMetrics"})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(page.Records))
	for _, r := range page.Records {
		var s string
		if json.Unmarshal(r, &s) == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// GetMetric returns a time series for an app metric.
func (c *Client) GetMetric(ctx context.Context, appID uint64, metric string, rng *timerange.Range) (*Page, error) {
	if err := ValidateMetric(metric); err != nil {
		return nil, err
	}
	return c.FetchPage(ctx, Request{Path: appPath(appID, "metrics", metric), Range: rng, ResultKey: "series"})
}

// ListEndpoints returns an app's endpoints. A nil range means the last 7 days.
func (c *Client) ListEndpoints(ctx context.Context, appID uint64, rng *timerange.Range) (*Page, error) {
	return c.FetchPage(ctx, Request{Path: appPath(appID, "endpoints"), Range: c.orDefault(rng)})
}

// GetEndpointMetric returns a time series for one endpoint.
func (c *Client) GetEndpointMetric(
	ctx context.Context, appID uint64, endpointID, metric string, rng *timerange.Range,
) (*Page, error) {
	if endpointID == "" {
		return nil, invalidArgument("endpoint id is required")
	}
	if err := ValidateMetric(metric); err != nil {
		return nil, err
	}
	return c.FetchPage(ctx, Request{
		Path:      appPath(appID, "endpoints", endpointID, "metrics", metric),
		Range:     rng,
		ResultKey: "series",
	})
}

// ListEndpointTraces returns traces for an endpoint. A nil range means the last 7 days.
func (c *Client) ListEndpointTraces(
	ctx context.Context, appID uint64, endpointID string, rng *timerange.Range,
) (*Page, error) {
	if endpointID == "" {
		return nil, invalidArgument("endpoint id is required")
	}
	return c.FetchPage(ctx, Request{
		Path:  appPath(appID, "endpoints", endpointID, "traces"),
		Range: c.orDefault(rng),
	})
}

// GetTrace returns one trace.
func (c *Client) GetTrace(ctx context.Context, appID, traceID uint64) (*Page, error) {
	return c.FetchPage(ctx, Request{
		Path:      appPath(appID, "traces", strconv.FormatUint(traceID, 10)),
		ResultKey: "trace",
	})
}

// ListErrorGroups returns error groups, optionally narrowed by time and endpoint.
func (c *Client) ListErrorGroups(
	ctx context.Context, appID uint64, rng *timerange.Range, endpoint string,
) (*Page, error) {
	return c.FetchPage(ctx, Request{
		Path:      appPath(appID, "error_groups"),
		Query:     url.Values{"endpoint": {endpoint}},
		Range:     rng,
		ResultKey: "error_groups",
	})
}

// GetErrorGroup returns one error group.
func (c *Client) GetErrorGroup(ctx context.Context, appID, groupID uint64) (*Page, error) {
	return c.FetchPage(ctx, Request{
		Path:      appPath(appID, "error_groups", strconv.FormatUint(groupID, 10)),
		ResultKey: "error_group",
	})
}

// ListErrorGroupErrors returns the individual errors of a group.
func (c *Client) ListErrorGroupErrors(ctx context.Context, appID, groupID uint64) (*Page, error) {
	return c.FetchPage(ctx, Request{
		Path:      appPath(appID, "error_groups", strconv.FormatUint(groupID, 10), "errors"),
		ResultKey: "errors",
	})
}

// GetInsights returns all current insights. limit 0 means the API default.
func (c *Client) GetInsights(ctx context.Context, appID uint64, limit int) (*Page, error) {
	q, err := limitQuery(limit)
	if err != nil {
		return nil, err
	}
	return c.FetchPage(ctx, Request{Path: appPath(appID, "insights"), Query: q})
}

// GetInsight returns current insights of one type.
func (c *Client) GetInsight(ctx context.Context, appID uint64, insightType string, limit int) (*Page, error) {
	if err := ValidateInsight(insightType); err != nil {
		return nil, err
	}
	q, err := limitQuery(limit)
	if err != nil {
		return nil, err
	}
	return c.FetchPage(ctx, Request{Path: appPath(appID, "insights", insightType), Query: q})
}

// HistoryQuery holds the inputs of an insights history request.
type HistoryQuery struct {
	// InsightType narrows to one type; "" means all types.
	InsightType string
	Range       *timerange.Range
	Limit       int
	Page        pagination.PaginationParams
}

// GetInsightsHistory returns historical insights, one page at a time.
func (c *Client) GetInsightsHistory(ctx context.Context, appID uint64, hq HistoryQuery) (*Page, error) {
	path := appPath(appID, "insights", "history")
	if hq.InsightType != "" {
		if err := ValidateInsight(hq.InsightType); err != nil {
			return nil, err
		}
		path = appPath(appID, "insights", "history", hq.InsightType)
	}
	q, err := limitQuery(hq.Limit)
	if err != nil {
		return nil, err
	}
	return c.FetchPage(ctx, Request{Path: path, Query: q, Range: hq.Range, Page: hq.Page})
}
