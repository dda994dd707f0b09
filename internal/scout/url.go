package scout

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// URLType is the kind of resource a Scout web URL points at.
type URLType string

// URL types, in detection priority after Trace.
const (
	URLTypeApp        URLType = "app"
	URLTypeEndpoint   URLType = "endpoint"
	URLTypeTrace      URLType = "trace"
	URLTypeErrorGroup URLType = "error_group"
	URLTypeInsight    URLType = "insight"
	URLTypeUnknown    URLType = "unknown"
)

// ParsedURL holds the identifiers found in a Scout web URL.
type ParsedURL struct {
	URLType         URLType `json:"url_type"`
	AppID           *uint64 `json:"app_id"`
	EndpointID      *string `json:"endpoint_id"`
	TraceID         *uint64 `json:"trace_id"`
	ErrorID         *uint64 `json:"error_id"`
	InsightType     *string `json:"insight_type"`
	DecodedEndpoint *string `json:"decoded_endpoint"`
}

// ParseURL extracts resource identifiers from a scoutapm.com URL such as
// https://scoutapm.com/apps/123/endpoints/<id>/trace/456.
func ParseURL(raw string) (ParsedURL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ParsedURL{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return ParsedURL{}, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidURL, raw)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	after := func(marker string) (string, bool) {
		for i, s := range segments {
			if s == marker && i+1 < len(segments) {
				return segments[i+1], true
			}
		}
		return "", false
	}
	has := func(marker string) bool {
		for _, s := range segments {
			if s == marker {
				return true
			}
		}
		return false
	}
	number := func(marker string) *uint64 {
		s, ok := after(marker)
		if !ok {
			return nil
		}
		n, convErr := strconv.ParseUint(s, 10, 64)
		if convErr != nil {
			return nil
		}
		return &n
	}
	text := func(marker string) *string {
		s, ok := after(marker)
		if !ok {
			return nil
		}
		return &s
	}

	p := ParsedURL{
		AppID:       number("apps"),
		EndpointID:  text("endpoints"),
		TraceID:     number("trace"),
		ErrorID:     number("error_groups"),
		InsightType: text("insights"),
	}

	switch {
	case has("trace"):
		p.URLType = URLTypeTrace
	case has("endpoints"):
		p.URLType = URLTypeEndpoint
	case has("error_groups"):
		p.URLType = URLTypeErrorGroup
	case has("insights"):
		p.URLType = URLTypeInsight
	case len(segments) >= 2 && segments[0] == "apps":
		p.URLType = URLTypeApp
	default:
		p.URLType = URLTypeUnknown
	}

	if p.EndpointID != nil {
		if decoded, decErr := DecodeEndpointID(*p.EndpointID); decErr == nil {
			p.DecodedEndpoint = &decoded
		}
	}
	return p, nil
}

// DecodeEndpointID decodes a base64url endpoint id into its readable name,
// falling back to standard base64.
func DecodeEndpointID(id string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		var stdErr error
		data, stdErr = base64.StdEncoding.DecodeString(id)
		if stdErr != nil {
			return "", fmt.Errorf("%w: endpoint id %q is not base64", ErrInvalidArgument, id)
		}
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: endpoint id %q does not decode to text", ErrInvalidArgument, id)
	}
	return string(data), nil
}
