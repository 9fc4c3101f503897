// Package host provides in-process implementations of the browser surfaces
// the coordinator and widgets drive. The CLI uses them to print what a
// browser would show; tests use them to observe side effects.
package host

import (
	"fmt"
	"io"
	"sync"

	"github.com/ppiankov/policywatch/internal/coordinator"
	"go.uber.org/zap"
)

// BadgeState is the badge of one tab
type BadgeState struct {
	Text  string
	Color string
}

// Badges records the badge of every tab
type Badges struct {
	mu      sync.Mutex
	tabs    map[int]BadgeState
	history []BadgeState
	logger  *zap.Logger
}

// NewBadges creates an empty badge surface
func NewBadges(logger *zap.Logger) *Badges {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Badges{tabs: make(map[int]BadgeState), logger: logger}
}

// SetBadge implements coordinator.Badger
func (b *Badges) SetBadge(tabID int, text, color string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := BadgeState{Text: text, Color: color}
	if text == "" {
		delete(b.tabs, tabID)
	} else {
		b.tabs[tabID] = state
	}
	b.history = append(b.history, state)
	b.logger.Debug("badge", zap.Int("tab", tabID), zap.String("text", text))
	return nil
}

// Get returns the badge of a tab
func (b *Badges) Get(tabID int) BadgeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tabs[tabID]
}

// History returns every badge write in order
func (b *Badges) History() []BadgeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BadgeState(nil), b.history...)
}

// Notifications records notifications and optionally prints them
type Notifications struct {
	mu  sync.Mutex
	out io.Writer
	all []coordinator.Notification
}

// NewNotifications creates a notifier writing to out (nil for silent)
func NewNotifications(out io.Writer) *Notifications {
	return &Notifications{out: out}
}

// Notify implements coordinator.Notifier
func (n *Notifications) Notify(note coordinator.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.all = append(n.all, note)
	if n.out != nil {
		if _, err := fmt.Fprintf(n.out, "🔔 %s: %s\n", note.Title, note.Message); err != nil {
			return err
		}
	}
	return nil
}

// All returns every notification shown
func (n *Notifications) All() []coordinator.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]coordinator.Notification(nil), n.all...)
}

// Menu records installed context menu entries
type Menu struct {
	mu    sync.Mutex
	items []coordinator.MenuItem
}

// CreateMenu implements coordinator.ContextMenu. Creating an ID twice fails.
func (m *Menu) CreateMenu(item coordinator.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.items {
		if existing.ID == item.ID {
			return fmt.Errorf("menu item %q already exists", item.ID)
		}
	}
	m.items = append(m.items, item)
	return nil
}

// Items returns the installed entries
func (m *Menu) Items() []coordinator.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coordinator.MenuItem(nil), m.items...)
}

// Opener records URLs that would open in a new tab
type Opener struct {
	mu     sync.Mutex
	out    io.Writer
	opened []string
}

// NewOpener creates an opener writing to out (nil for silent)
func NewOpener(out io.Writer) *Opener {
	return &Opener{out: out}
}

// Open implements coordinator.Opener
func (o *Opener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.opened = append(o.opened, url)
	if o.out != nil {
		_, err := fmt.Fprintf(o.out, "→ open %s\n", url)
		return err
	}
	return nil
}

// Opened returns the opened URLs
func (o *Opener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}
