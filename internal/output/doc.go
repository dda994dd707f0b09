// Package output renders API results for the terminal.
//
// Two formats are supported. FormatPlain prints arrays of objects as
// right-aligned tables, objects as indented key: value lines and scalars as
// they are. FormatJSON pretty-prints the value unchanged. Errors have their own
// rendering per format so scripts consuming JSON always receive JSON.
package output
