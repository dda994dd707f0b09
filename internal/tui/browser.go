package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/timerange"
	listview "github.com/rshade/scout/internal/tui/list"
)

// ViewState is the screen the browser is showing.
type ViewState int

// Browser states.
const (
	ViewStateAppList ViewState = iota
	ViewStateLoading
	ViewStateEndpointList
	ViewStateError
)

func (s ViewState) String() string {
	switch s {
	case ViewStateAppList:
		return "AppList"
	case ViewStateLoading:
		return "Loading"
	case ViewStateEndpointList:
		return "EndpointList"
	case ViewStateError:
		return "Error"
	default:
		return "ViewState(" + strconv.Itoa(int(s)) + ")"
	}
}

// Layout.
const (
	defaultWidth   = 100
	defaultHeight  = 24
	chromeHeight   = 6
	detailHeight   = 10
	minListHeight  = 3
	appNameWidth   = 32
	itemWidth      = 48
	appIDWidth     = 8
	selectedPrefix = "> "
	plainPrefix    = "  "
)

// Options configures a Browser.
type Options struct {
	// UTC renders timestamps in UTC instead of the local zone.
	UTC bool
	// App preselects an app by id or name and opens it once the app list arrives.
	App string
	// Tab is the tab shown when an app is opened.
	Tab Tab
	// Refresh re-fetches the open tab at this interval. Zero disables it.
	Refresh time.Duration
	// Now is the clock for the 7-day window. Defaults to time.Now.
	Now func() time.Time
}

// Browser is the interactive app browser. An open app shows its endpoints,
// insights, metrics or error groups, one tab at a time.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Browser struct {
	ctx     context.Context
	fetcher Fetcher
	opts    Options
	now     func() time.Time

	state        ViewState
	returnState  ViewState
	errorMessage string

	apps        []scout.App
	appList     *listview.Model[scout.App]
	filter      textinput.Model
	selectedApp *scout.App

	// tabItems caches each tab of the open app; tabLoaded marks the fetched ones.
	tab       Tab
	tabItems  [tabCount][]scout.Record
	tabLoaded [tabCount]bool
	itemList  *listview.Model[scout.Record]

	series       json.RawMessage
	seriesMetric string

	loading *LoadingState
	keys    keyMap
	help    help.Model
	printer *message.Printer

	width  int
	height int

	// gen identifies the newest fetch; results and ticks carrying an older gen are dropped.
	gen       int
	preselect bool
}

// NewBrowser creates a browser that starts by loading the app list.
func NewBrowser(ctx context.Context, f Fetcher, opts Options) Browser {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "type to filter apps"
	filter.Focus()

	m := Browser{
		ctx:         ctx,
		fetcher:     f,
		opts:        opts,
		now:         now,
		state:       ViewStateLoading,
		returnState: ViewStateAppList,
		tab:         opts.Tab,
		filter:      filter,
		loading:     NewLoadingState(),
		keys:        defaultKeyMap(),
		help:        help.New(),
		printer:     message.NewPrinter(language.English),
		width:       defaultWidth,
		height:      defaultHeight,
		preselect:   strings.TrimSpace(opts.App) != "",
	}
	m.appList = listview.New([]scout.App{}, m.appListHeight(), renderApp(opts.UTC))
	m.itemList = listview.New([]scout.Record{}, m.itemListHeight(), renderRecord(opts.UTC))
	return m
}

// Init starts the spinner and the app list fetch.
func (m Browser) Init() tea.Cmd {
	return tea.Batch(m.loading.Start("Loading apps…"), loadApps(m.ctx, m.fetcher, m.gen))
}

// Update handles messages (Bubble Tea interface).
func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.appList.SetHeight(m.appListHeight())
		m.itemList.SetHeight(m.itemListHeight())
		return m, nil
	case spinner.TickMsg:
		if m.state != ViewStateLoading {
			return m, nil
		}
		return m, m.loading.Update(msg)
	case appsLoadedMsg:
		return m.handleAppsLoaded(msg)
	case tabLoadedMsg:
		return m.handleTabLoaded(msg)
	case seriesLoadedMsg:
		return m.handleSeriesLoaded(msg)
	case refreshTickMsg:
		if msg.gen != m.gen || m.state != ViewStateEndpointList || m.selectedApp == nil {
			return m, nil
		}
		m.returnState = ViewStateEndpointList
		return m.fetchTab(true)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Browser) handleAppsLoaded(msg appsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.state != ViewStateLoading {
		return m, nil
	}
	if msg.err != nil {
		m.fail(msg.err.Error())
		return m, nil
	}

	m.apps = msg.apps
	m.applyFilter()
	m.state = ViewStateAppList

	if !m.preselect {
		return m, nil
	}
	m.preselect = false
	idx, ok := findApp(m.appList.Items(), m.opts.App)
	if !ok {
		m.returnState = ViewStateAppList
		m.fail(fmt.Sprintf("app %q not found", m.opts.App))
		return m, nil
	}
	m.appList.SetSelected(idx)
	return m.openApp(m.appList.Items()[idx])
}

func (m Browser) handleTabLoaded(msg tabLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.state != ViewStateLoading {
		return m, nil
	}
	if msg.err != nil {
		m.fail(msg.err.Error())
		return m, nil
	}

	m.tabItems[msg.tab] = msg.items
	m.tabLoaded[msg.tab] = true

	selected := 0
	if msg.refresh {
		selected = m.itemList.Selected()
	}
	m.itemList.SetItems(msg.items)
	m.itemList.SetSelected(selected)
	m.state = ViewStateEndpointList
	return m, m.nextRefresh()
}

func (m Browser) handleSeriesLoaded(msg seriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.state != ViewStateLoading {
		return m, nil
	}
	if msg.err != nil {
		m.fail(msg.err.Error())
		return m, nil
	}
	m.series = msg.series
	m.seriesMetric = msg.metric
	m.state = ViewStateEndpointList
	return m, m.nextRefresh()
}

// nextRefresh schedules the next refresh of the open tab, if enabled.
func (m Browser) nextRefresh() tea.Cmd {
	if m.opts.Refresh <= 0 {
		return nil
	}
	return scheduleRefresh(m.opts.Refresh, m.gen)
}

// fail shows message in the Error state. The next key returns to returnState.
func (m *Browser) fail(message string) {
	m.state = ViewStateError
	m.errorMessage = message
}

// openApp opens app on the configured tab, dropping anything cached for the previous app.
func (m Browser) openApp(app scout.App) (tea.Model, tea.Cmd) {
	m.selectedApp = &app
	m.tab = m.opts.Tab
	m.tabItems = [tabCount][]scout.Record{}
	m.tabLoaded = [tabCount]bool{}
	m.series, m.seriesMetric = nil, ""
	m.itemList.SetItems([]scout.Record{})
	m.returnState = ViewStateAppList
	return m.fetchTab(false)
}

// fetchTab loads the open tab for the default window ending now. A refresh keeps the selection.
func (m Browser) fetchTab(refresh bool) (tea.Model, tea.Cmd) {
	if m.selectedApp == nil {
		return m, nil
	}
	m.gen++
	m.state = ViewStateLoading

	app := *m.selectedApp
	rng := timerange.Default(timerange.DefaultSpan, m.now())
	return m, tea.Batch(
		m.loading.Start(fmt.Sprintf("Loading %s for %s…", m.tab.noun(), app.Label())),
		loadTab(m.ctx, m.fetcher, app, m.tab, rng, m.gen, refresh),
	)
}

// switchTab shows tab, fetching it unless it is already cached.
func (m Browser) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.itemList.SetItems(m.tabItems[tab])
	m.itemList.SetSelected(0)
	if m.tabLoaded[tab] {
		return m, nil
	}
	m.returnState = ViewStateEndpointList
	return m.fetchTab(false)
}

// openSeries loads the selected metric's series for the default window ending now.
func (m Browser) openSeries() (tea.Model, tea.Cmd) {
	item, ok := m.itemList.SelectedItem()
	if !ok || m.selectedApp == nil {
		return m, nil
	}
	m.gen++
	m.returnState = ViewStateEndpointList
	m.state = ViewStateLoading

	rng := timerange.Default(timerange.DefaultSpan, m.now())
	return m, tea.Batch(
		m.loading.Start(fmt.Sprintf("Loading metric %s…", item.Label)),
		loadSeries(m.ctx, m.fetcher, m.selectedApp.ID, item.Label, rng, m.gen),
	)
}

func (m Browser) reloadApps() (tea.Model, tea.Cmd) {
	m.gen++
	m.returnState = ViewStateAppList
	m.state = ViewStateLoading
	return m, tea.Batch(m.loading.Start("Loading apps…"), loadApps(m.ctx, m.fetcher, m.gen))
}

func (m Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	case ViewStateError:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.state = m.returnState
		m.errorMessage = ""
		if m.state == ViewStateEndpointList {
			return m, m.nextRefresh()
		}
		return m, nil
	case ViewStateAppList:
		return m.handleAppListKey(msg)
	case ViewStateEndpointList:
		return m.handleEndpointListKey(msg)
	}
	return m, nil
}

func (m Browser) handleAppListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Open):
		app, ok := m.appList.SelectedItem()
		if !ok {
			return m, nil
		}
		return m.openApp(app)
	case key.Matches(msg, m.keys.Reload):
		return m.reloadApps()
	case m.appList.HandleKey(msg):
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m Browser) handleEndpointListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.gen++
		m.state = ViewStateAppList
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(m.tab.next())
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(m.tab.prev())
	case key.Matches(msg, m.keys.Open):
		if m.tab == TabMetrics {
			return m.openSeries()
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.returnState = ViewStateEndpointList
		return m.fetchTab(true)
	}
	m.itemList.HandleKey(msg)
	return m, nil
}

// applyFilter narrows the app list to names containing the filter text or ids
// starting with it, case-insensitively.
func (m *Browser) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		m.appList.SetItems(m.apps)
		return
	}
	filtered := make([]scout.App, 0, len(m.apps))
	for _, a := range m.apps {
		if strings.Contains(strings.ToLower(a.Name), query) ||
			strings.HasPrefix(strconv.FormatUint(a.ID, 10), query) {
			filtered = append(filtered, a)
		}
	}
	m.appList.SetItems(filtered)
}

// findApp matches want against app ids first, then names case-insensitively.
func findApp(apps []scout.App, want string) (int, bool) {
	want = strings.TrimSpace(want)
	if id, err := strconv.ParseUint(want, 10, 64); err == nil {
		for i, a := range apps {
			if a.ID == id {
				return i, true
			}
		}
	}
	for i, a := range apps {
		if strings.EqualFold(a.Name, want) {
			return i, true
		}
	}
	return 0, false
}

func (m Browser) appListHeight() int {
	return max(m.height-chromeHeight, minListHeight)
}

func (m Browser) itemListHeight() int {
	return max(m.height-chromeHeight-detailHeight, minListHeight)
}

// State returns the current view state.
func (m Browser) State() ViewState { return m.state }

// ErrorMessage returns the message shown in the Error state, or "".
func (m Browser) ErrorMessage() string { return m.errorMessage }

// Apps returns every loaded app, unfiltered.
func (m Browser) Apps() []scout.App { return m.apps }

// SelectedAppIndex returns the selection within the visible app list.
func (m Browser) SelectedAppIndex() int { return m.appList.Selected() }

// Tab returns the tab of the open app.
func (m Browser) Tab() Tab { return m.tab }

// Items returns the rows of the open tab, newest first where they carry a time.
func (m Browser) Items() []scout.Record { return m.itemList.Items() }

// SelectedItemIndex returns the selection within the open tab.
func (m Browser) SelectedItemIndex() int { return m.itemList.Selected() }

// SelectedApp returns the app that was last opened.
func (m Browser) SelectedApp() (scout.App, bool) {
	if m.selectedApp == nil {
		return scout.App{}, false
	}
	return *m.selectedApp, true
}

func renderApp(utc bool) listview.RenderFunc[scout.App] {
	return func(a scout.App, selected bool) string {
		line := fmt.Sprintf("%-*d %-*s %s",
			appIDWidth, a.ID,
			appNameWidth, truncate(a.Label(), appNameWidth),
			timerange.Display(a.LastReportedAt, utc))
		return row(strings.TrimRight(line, " "), selected)
	}
}

func renderRecord(utc bool) listview.RenderFunc[scout.Record] {
	return func(r scout.Record, selected bool) string {
		line := fmt.Sprintf("%-*s %s", itemWidth, truncate(r.Label, itemWidth), timerange.Display(r.Time, utc))
		return row(strings.TrimRight(line, " "), selected)
	}
}

func row(line string, selected bool) string {
	if selected {
		return SelectedStyle.Render(selectedPrefix + line)
	}
	return plainPrefix + line
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
