// Package scout is a client for the Scout APM REST API (v0).
//
// Every call is a single authenticated GET. There is no retry, batching or caching:
// a failure is returned to the caller as one of the error kinds in errors.go.
// FetchPage is the generic primitive; the typed methods in queries.go build the
// path and parameters for each resource and call it once.
package scout
