// Package pagination validates the cursor/direction/page flags shared by paginated
// commands and describes the cursors a page comes back with.
//
// A request is addressed by exactly one of:
//   - a cursor, optionally with a direction (forward or backward)
//   - a 1-based page number
//   - nothing, meaning the first page going forward
//
// Cursors are opaque and are echoed back to the API verbatim.
package pagination
