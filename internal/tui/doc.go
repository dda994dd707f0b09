// Package tui implements the interactive Scout browser.
//
// The Browser is a Bubble Tea model with four states: AppList, Loading,
// EndpointList and Error. All state changes happen in Update. Network calls run
// as tea.Cmd functions and report back through messages, so no goroutine other
// than the event loop ever touches the model.
//
// EndpointList shows the open app one tab at a time: endpoints, insights,
// metrics or error groups. Each tab is fetched on first view and cached until
// another app is opened. On the metrics tab, Enter charts the selected metric.
package tui
