package widget

import (
	"sync"

	"github.com/ppiankov/policywatch/internal/model"
)

// Factory builds the controller for a context the first time it is needed
type Factory func(contextID string) *Controller

// Manager keeps at most one widget per context
type Manager struct {
	factory Factory

	mu      sync.Mutex
	widgets map[string]*Controller
}

// NewManager creates a manager using factory for new contexts
func NewManager(factory Factory) *Manager {
	return &Manager{
		factory: factory,
		widgets: make(map[string]*Controller),
	}
}

// Create opens a widget for contextID. If one is already showing it is
// returned unchanged and created is false.
func (m *Manager) Create(contextID string, page Page) (c *Controller, created bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.widgets[contextID]
	if ok && c.State() != model.StateIdle {
		return c, false, nil
	}
	if !ok {
		c = m.factory(contextID)
		m.widgets[contextID] = c
	}

	if err := c.Open(page); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// Get returns the widget for contextID, if any
func (m *Manager) Get(contextID string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.widgets[contextID]
	return c, ok
}

// Close closes and releases the widget for contextID
func (m *Manager) Close(contextID string) {
	m.mu.Lock()
	c, ok := m.widgets[contextID]
	delete(m.widgets, contextID)
	m.mu.Unlock()

	if ok {
		c.Close()
	}
}

// CloseAll closes every widget
func (m *Manager) CloseAll() {
	m.mu.Lock()
	widgets := m.widgets
	m.widgets = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range widgets {
		c.Close()
	}
}

// Len returns the number of tracked widgets
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.widgets)
}
