package scout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/scout/internal/cli/pagination"
	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/logging"
	"github.com/rshade/scout/internal/timerange"
	"github.com/rshade/scout/pkg/version"
)

// HeaderAPIKey carries the API key on every request.
const HeaderAPIKey = "X-SCOUT-API"

// CredentialSource yields the API key when a request is built.
type CredentialSource interface {
	Value() (string, error)
}

// Client talks to the Scout API.
type Client struct {
	baseURL   string
	hc        *http.Client
	timeout   time.Duration
	cred      CredentialSource
	userAgent string
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTimeout sets the per-request timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithClock overrides the clock used for default time ranges.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a Client. cred is read once per request and never logged.
func New(cred CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:   config.DefaultAPIBase,
		timeout:   config.DefaultTimeout,
		cred:      cred,
		userAgent: version.UserAgent(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hc == nil {
		c.hc = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Request describes one API call.
type Request struct {
	// Path is relative to the base URL, e.g. "/apps/42/endpoints".
	Path string
	// Query holds extra parameters. Empty values are dropped.
	Query url.Values
	// Range is sent as from/to when non-nil.
	Range *timerange.Range
	// Page is sent as pagination_* parameters when set.
	Page pagination.PaginationParams
	// ResultKey selects results[ResultKey] instead of the whole results object.
	ResultKey string
}

// FetchPage performs exactly one request and decodes the response envelope.
func (c *Client) FetchPage(ctx context.Context, req Request) (*Page, error) {
	body, status, err := c.get(ctx, req.Path, buildQuery(req))
	if err != nil {
		return nil, err
	}
	page, err := decodePage(body, status, req.ResultKey)
	if err != nil {
		return nil, err
	}
	page.Meta = pagination.NewPaginationMeta(req.Page, page.Meta.Next, page.Meta.Previous)
	return page, nil
}

// buildQuery merges the request's parameters, omitting absent ones.
func buildQuery(req Request) url.Values {
	q := url.Values{}
	for k, vs := range req.Query {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	if req.Range != nil {
		q.Set("from", req.Range.FromParam())
		q.Set("to", req.Range.ToParam())
	}
	req.Page.Apply(q)
	return q
}

// get issues the request and maps failures onto HTTPError / ErrTransport.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	log := logging.FromContext(ctx)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building request: %w", ErrTransport, err)
	}

	key, err := c.cred.Value()
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set(HeaderAPIKey, key)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		log.Debug().Ctx(ctx).Str("component", "scout").Str("path", path).Err(err).Msg("request failed")
		return nil, 0, fmt.Errorf("%w: %w", ErrTransport, stripURL(err))
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "scout").
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, &HTTPError{Status: resp.StatusCode, Message: msgAuthFailed}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := envelopeMessage(payload)
		if msg == "" {
			msg = msgRequestFailed
		}
		return nil, resp.StatusCode, &HTTPError{Status: resp.StatusCode, Message: msg}
	}
	return payload, resp.StatusCode, nil
}

// stripURL drops the request URL from *url.Error; the query string is noise in a
// user-facing message.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// envelopeMessage extracts header.status.message from a body, or "".
func envelopeMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Header.Status.Message
}
