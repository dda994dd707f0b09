package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// halfViewportDivisor centers the selection in the viewport.
const halfViewportDivisor = 2

// RenderFunc renders one item. selected marks the highlighted row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a selectable list of T with a fixed-height viewport.
type Model[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	selected int

	// visible window, [visibleFrom, visibleTo)
	visibleFrom int
	visibleTo   int

	height int
}

// New creates a list showing height rows at a time.
func New[T any](items []T, height int, renderFunc RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     max(height, 1),
	}
	m.updateVisibleRange()
	return m
}

// SetItems replaces the items, keeping the selection inside the new bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetHeight changes the viewport height.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.updateVisibleRange()
}

// HandleKey applies a navigation key and reports whether the key was one.
//
// Up/k and Down/j move by one; PgUp/PgDown by a page; Home/End jump to the ends.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *Model[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		m.Move(-1)
	case tea.KeyDown:
		m.Move(1)
	case tea.KeyPgUp:
		m.Move(-m.height)
	case tea.KeyPgDown:
		m.Move(m.height)
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return false
		}
		switch msg.Runes[0] {
		case 'j':
			m.Move(1)
		case 'k':
			m.Move(-1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// Move shifts the selection by delta, clamped to [0, len-1].
func (m *Model[T]) Move(delta int) {
	m.SetSelected(m.selected + delta)
}

// SetSelected sets the selection, clamped to [0, len-1].
func (m *Model[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// updateVisibleRange keeps the selected row inside the viewport.
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := m.selected - m.height/halfViewportDivisor
	if from < 0 {
		from = 0
	}
	to := from + m.height
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}
	m.visibleFrom, m.visibleTo = from, to
}

// View renders the rows in the viewport, one per line.
func (m *Model[T]) View() string {
	var b strings.Builder
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		if i > m.visibleFrom {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderFunc(m.items[i], i == m.selected))
	}
	return b.String()
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the selected index. It is 0 for an empty list.
func (m *Model[T]) Selected() int {
	return m.selected
}

// SelectedItem returns the selected item, or false when the list is empty.
func (m *Model[T]) SelectedItem() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.selected], true
}

// Items returns the items in display order.
func (m *Model[T]) Items() []T {
	return m.items
}

// VisibleRange returns the viewport window as [from, to).
func (m *Model[T]) VisibleRange() (int, int) {
	return m.visibleFrom, m.visibleTo
}
