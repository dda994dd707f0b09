package timerange

import "time"

// Display layouts.
const (
	displayUTC   = "2006-01-02 15:04:05 UTC"
	displayLocal = "2006-01-02 15:04:05 -07:00"
)

// Display renders an API timestamp for people. In UTC mode it is shown in UTC,
// otherwise in the local zone with its offset. Unparseable input comes back unchanged.
func Display(raw string, utc bool) string {
	t, err := ParseTime(raw)
	if err != nil {
		return raw
	}
	return DisplayTime(t, utc)
}

// DisplayTime is Display for a parsed time.
func DisplayTime(t time.Time, utc bool) string {
	if utc {
		return t.UTC().Format(displayUTC)
	}
	return t.Local().Format(displayLocal)
}
