package tui

import (
	"strings"

	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/tui/detail"
)

// View renders the current state (Bubble Tea interface).
func (m Browser) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.state {
	case ViewStateLoading:
		b.WriteString(m.loading.View())
	case ViewStateError:
		b.WriteString(ErrorStyle.Render("Error: " + m.errorMessage))
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render("Press any key to continue, q to quit."))
	case ViewStateAppList:
		b.WriteString(m.renderAppList())
	case ViewStateEndpointList:
		b.WriteString(m.renderEndpointList())
	}
	b.WriteString("\n")
	return b.String()
}

func (m Browser) renderHeader() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Scout APM"))
	b.WriteString(SubtleStyle.Render(m.printer.Sprintf("  %d apps", len(m.apps))))
	if m.opts.UTC {
		b.WriteString(SubtleStyle.Render("  UTC"))
	}
	if m.opts.Refresh > 0 {
		b.WriteString(SubtleStyle.Render("  refresh " + m.opts.Refresh.String()))
	}
	return b.String()
}

func (m Browser) renderAppList() string {
	var b strings.Builder
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	if m.appList.Len() == 0 {
		b.WriteString(SubtleStyle.Render("  No apps."))
	} else {
		b.WriteString(m.appList.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys.appListKeys()))
	return b.String()
}

func (m Browser) renderEndpointList() string {
	var b strings.Builder
	if app, ok := m.SelectedApp(); ok {
		b.WriteString(LabelStyle.Render("App: "))
		b.WriteString(ValueStyle.Render(app.Label()))
		b.WriteString("  ")
	}
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	summary := m.printer.Sprintf("  %d %s", m.itemList.Len(), m.tab.noun())
	if m.tab == TabEndpoints || m.tab == TabErrors {
		summary += ", last 7 days"
	}
	b.WriteString(SubtleStyle.Render(summary))
	b.WriteString("\n\n")

	item, ok := m.itemList.SelectedItem()
	if !ok {
		b.WriteString(SubtleStyle.Render("  No " + m.tab.noun() + " in this window."))
	} else {
		b.WriteString(m.itemList.View())
		b.WriteString("\n\n")
		b.WriteString(BoxStyle.Width(max(m.width-2, 20)).Render(m.renderDetail(item)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys.tabKeys(m.tab)))
	return b.String()
}

func (m Browser) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := TabEndpoints; t < tabCount; t++ {
		if t == m.tab {
			parts = append(parts, SelectedStyle.Render("["+t.String()+"]"))
		} else {
			parts = append(parts, SubtleStyle.Render(" "+t.String()+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m Browser) renderDetail(item scout.Record) string {
	if m.tab != TabMetrics {
		return detail.Render(item.Raw, m.opts.UTC)
	}
	if m.series == nil || m.seriesMetric != item.Label {
		return SubtleStyle.Render("  Press enter to chart the last 7 days.")
	}
	return detail.RenderSeries(m.series, item.Label, max(m.width-6, 10), m.opts.UTC)
}
