// Package detail renders a single API record as an aligned key/value pane.
package detail
