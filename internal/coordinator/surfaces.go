package coordinator

import (
	"context"

	"github.com/ppiankov/policywatch/internal/messaging"
	"github.com/ppiankov/policywatch/internal/model"
)

// Badge surface values
const (
	BadgeMarker = "!"
	BadgeColor  = "#FF6B6B"
)

// Notification surface values
const (
	NotificationIcon = "icons/icon48.png"

	welcomeTitle   = "Privacy Policy Analyzer installed"
	welcomeMessage = "Browse to any privacy policy or terms page and we will offer to analyze it for you."
	detectTitle    = "Privacy policy detected"
	detectMessage  = "Found a privacy policy on %s. Open the extension to see how your data is handled."
)

// Context menu values
const (
	MenuID    = "analyze-privacy-policy"
	MenuTitle = "Analyze this privacy policy"
)

// MenuPatterns restricts the context menu to policy-like documents
var MenuPatterns = []string{
	"*://*/*privacy*",
	"*://*/*terms*",
	"*://*/*policy*",
}

// TabEvent reports that a tab finished loading a URL
type TabEvent struct {
	TabID int
	URL   string
	Title string
}

// Notification is one toast shown to the user
type Notification struct {
	ID      string
	Icon    string
	Title   string
	Message string
}

// MenuItem is a context menu entry
type MenuItem struct {
	ID                  string
	Title               string
	Contexts            []string
	DocumentURLPatterns []string
}

// Badger sets the per-tab badge. Empty text clears it.
type Badger interface {
	SetBadge(tabID int, text, color string) error
}

// Notifier shows notifications
type Notifier interface {
	Notify(n Notification) error
}

// ContextMenu installs menu entries
type ContextMenu interface {
	CreateMenu(item MenuItem) error
}

// TabMessenger delivers a message to the content context of a tab and
// removes the widget a tab is showing
type TabMessenger interface {
	SendToTab(ctx context.Context, tabID int, msg messaging.CreateWidgetMessage) error
	Close(tabID int)
}

// Opener opens a URL in a new tab
type Opener interface {
	Open(url string) error
}

// PageProbe fetches the title and body text of a URL
type PageProbe interface {
	Probe(ctx context.Context, url string) (title, body string, err error)
}

// Recorder persists answered analyses
type Recorder interface {
	Record(ctx context.Context, website string, platform model.Platform, result model.AnalysisResult) error
}
