package host

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ppiankov/policywatch/internal/messaging"
	"github.com/ppiankov/policywatch/internal/widget"
	"go.uber.org/zap"
)

// Loader produces the page a tab is showing
type Loader func(ctx context.Context, url string) (widget.Page, error)

// Tabs delivers create-widget messages to per-tab widgets. It satisfies
// coordinator.TabMessenger.
type Tabs struct {
	manager *widget.Manager
	load    Loader
	logger  *zap.Logger
}

// NewTabs creates a tab messenger over manager
func NewTabs(manager *widget.Manager, load Loader, logger *zap.Logger) *Tabs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tabs{manager: manager, load: load, logger: logger}
}

// SendToTab opens the widget of the tab unless one is already showing the
// same page. A widget left over from another page is replaced.
func (t *Tabs) SendToTab(ctx context.Context, tabID int, msg messaging.CreateWidgetMessage) error {
	page, err := t.load(ctx, msg.URL)
	if err != nil {
		return fmt.Errorf("load %s: %w", msg.URL, err)
	}

	if w, ok := t.Widget(tabID); ok {
		if shown := w.URL(); shown != "" && shown != page.URL() {
			t.logger.Debug("replacing widget", zap.Int("tab", tabID), zap.String("was", shown))
			t.manager.Close(ContextID(tabID))
		}
	}

	_, created, err := t.manager.Create(ContextID(tabID), page)
	if err != nil {
		return err
	}
	t.logger.Debug("create-widget", zap.Int("tab", tabID), zap.Bool("created", created))
	return nil
}

// Widget returns the controller of a tab, if one exists
func (t *Tabs) Widget(tabID int) (*widget.Controller, bool) {
	return t.manager.Get(ContextID(tabID))
}

// Close releases the widget of a tab
func (t *Tabs) Close(tabID int) {
	t.manager.Close(ContextID(tabID))
}

// ContextID names the widget context of a tab
func ContextID(tabID int) string {
	return "tab-" + strconv.Itoa(tabID)
}
