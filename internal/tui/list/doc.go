// Package listview renders a scrolling, selectable list for the browser.
//
// Only the rows inside the viewport are rendered. Selection moves are clamped
// to the list bounds; there is no wraparound at either end.
package listview
