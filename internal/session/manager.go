package session

import (
	"errors"
	"sync"
)

// ErrTabNotFound indicates an operation against a tab ID that is not
// open.
var ErrTabNotFound = errors.New("tab not found")

// ErrNoTabs indicates an operation that needs at least one open tab.
var ErrNoTabs = errors.New("no open tabs")

// Manager holds the ordered list of open tabs and tracks the active
// one. The active index is always valid while any tab is open.
type Manager struct {
	mu     sync.RWMutex
	tabs   []*Tab
	active int
}

// NewManager creates an empty tab manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends a tab and makes it active.
func (m *Manager) Add(t *Tab) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs = append(m.tabs, t)
	m.active = len(m.tabs) - 1
}

// Close removes the tab with the given ID. Closing the active tab
// activates its left neighbor when one exists, otherwise the tab that
// slides into its place from the right.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrTabNotFound
	}
	m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)

	switch {
	case len(m.tabs) == 0:
		m.active = 0
	case i < m.active:
		m.active--
	case i == m.active:
		if m.active > 0 {
			m.active--
		} else if m.active >= len(m.tabs) {
			m.active = len(m.tabs) - 1
		}
	}
	return nil
}

// CloseActive closes the active tab.
func (m *Manager) CloseActive() error {
	m.mu.RLock()
	var id string
	if len(m.tabs) > 0 {
		id = m.tabs[m.active].ID()
	}
	m.mu.RUnlock()

	if id == "" {
		return ErrNoTabs
	}
	return m.Close(id)
}

// SwitchTo activates the tab with the given ID. Switching only moves
// the active index; each tab keeps its buffer, history, and highlight
// cache untouched.
func (m *Manager) SwitchTo(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrTabNotFound
	}
	m.active = i
	return nil
}

// SwitchIndex activates the tab at a position in the tab order.
func (m *Manager) SwitchIndex(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.tabs) {
		return ErrTabNotFound
	}
	m.active = i
	return nil
}

// Next activates the tab after the active one, wrapping around.
func (m *Manager) Next() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tabs) > 0 {
		m.active = (m.active + 1) % len(m.tabs)
	}
}

// Prev activates the tab before the active one, wrapping around.
func (m *Manager) Prev() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tabs) > 0 {
		m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
	}
}

// Move reorders the tab with the given ID to a new position. The
// active tab stays active regardless of where it lands.
func (m *Manager) Move(id string, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrTabNotFound
	}
	if to < 0 {
		to = 0
	}
	if to >= len(m.tabs) {
		to = len(m.tabs) - 1
	}

	activeID := m.tabs[m.active].ID()
	t := m.tabs[i]
	m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
	m.tabs = append(m.tabs[:to], append([]*Tab{t}, m.tabs[to:]...)...)
	m.active = m.indexOf(activeID)
	return nil
}

// Active returns the active tab, or nil when no tabs are open.
func (m *Manager) Active() *Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.active]
}

// ActiveIndex returns the position of the active tab. It is only
// meaningful when Count is non-zero.
func (m *Manager) ActiveIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// ByID returns the tab with the given ID.
func (m *Manager) ByID(id string) (*Tab, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.tabs[i], nil
	}
	return nil, ErrTabNotFound
}

// List returns the tabs in display order.
func (m *Manager) List() []*Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Tab(nil), m.tabs...)
}

// Count returns the number of open tabs.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tabs)
}

// FindByPath returns the open tab for a file path, if any.
func (m *Manager) FindByPath(path string) (*Tab, bool) {
	if path == "" {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tabs {
		if t.Path() == path {
			return t, true
		}
	}
	return nil, false
}

// indexOf returns the position of a tab ID, or -1. Callers hold m.mu.
func (m *Manager) indexOf(id string) int {
	for i, t := range m.tabs {
		if t.ID() == id {
			return i
		}
	}
	return -1
}
