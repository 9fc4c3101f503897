// Package coordinator is the background context: it watches tab
// navigation, keeps the badge and notifications in step with the latest
// classification of each tab, and answers requests from the other
// contexts over a messaging.Channel.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/ppiankov/policywatch/internal/analysis"
	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/messaging"
	"github.com/ppiankov/policywatch/internal/settings"
	"go.uber.org/zap"
)

// ErrInvalidBadge is returned for badge text other than the marker or empty
var ErrInvalidBadge = errors.New("invalid badge text")

// Surfaces bundles the host surfaces the coordinator drives
type Surfaces struct {
	Badge  Badger
	Notify Notifier
	Menu   ContextMenu
	Tabs   TabMessenger
	Opener Opener
}

// Coordinator owns per-tab classification state
type Coordinator struct {
	settings *settings.Service
	analyzer analysis.Analyzer
	surfaces Surfaces
	probe    PageProbe
	recorder Recorder
	fullURL  string
	logger   *zap.Logger

	mu      sync.Mutex
	seqs    map[int]uint64
	widgets map[int]*sync.Mutex
	next    uint64
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithPageProbe enables body-text classification on navigation
func WithPageProbe(p PageProbe) Option {
	return func(c *Coordinator) { c.probe = p }
}

// WithRecorder stores every analysis answered over the channel
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithFullAnalysisURL sets the web application opened by open-full-analysis
func WithFullAnalysisURL(u string) Option {
	return func(c *Coordinator) { c.fullURL = u }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a coordinator
func New(svc *settings.Service, analyzer analysis.Analyzer, surfaces Surfaces, opts ...Option) *Coordinator {
	c := &Coordinator{
		settings: svc,
		analyzer: analyzer,
		surfaces: surfaces,
		logger:   zap.NewNop(),
		seqs:     make(map[int]uint64),
		widgets:  make(map[int]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnInstalled writes missing settings defaults, installs the context menu
// and shows the welcome notification
func (c *Coordinator) OnInstalled(ctx context.Context) error {
	if _, err := c.settings.InitDefaults(); err != nil {
		return fmt.Errorf("init settings: %w", err)
	}

	if c.surfaces.Menu != nil {
		item := MenuItem{
			ID:                  MenuID,
			Title:               MenuTitle,
			Contexts:            []string{"page"},
			DocumentURLPatterns: MenuPatterns,
		}
		if err := c.surfaces.Menu.CreateMenu(item); err != nil {
			return fmt.Errorf("create context menu: %w", err)
		}
	}

	if c.surfaces.Notify != nil {
		n := Notification{ID: "welcome", Icon: NotificationIcon, Title: welcomeTitle, Message: welcomeMessage}
		if err := c.surfaces.Notify.Notify(n); err != nil {
			c.logger.Warn("welcome notification failed", zap.Error(err))
		}
	}

	c.logger.Info("installed")
	return nil
}

// OnTabCompleted classifies the tab's new URL and updates its badge. The
// widget of the previous page is removed; a privacy page gets a fresh one
// when auto analysis is on. If a newer navigation of the same tab was
// observed meanwhile, the result is discarded.
func (c *Coordinator) OnTabCompleted(ctx context.Context, ev TabEvent) error {
	seq := c.observe(ev.TabID)

	current, err := c.settings.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	if !current.ExtensionEnabled {
		if err := c.apply(ev.TabID, seq, func() error { return c.setBadge(ev.TabID, "") }); err != nil {
			return err
		}
		return c.syncWidget(ctx, ev.TabID, seq, ev.URL, false)
	}

	title, body := ev.Title, ""
	if c.probe != nil {
		t, b, err := c.probe.Probe(ctx, ev.URL)
		if err != nil {
			c.logger.Debug("page probe failed", zap.String("url", ev.URL), zap.Error(err))
		} else {
			body = b
			if title == "" {
				title = t
			}
		}
	}

	result := classify.Classify(ev.URL, title, body)

	err = c.apply(ev.TabID, seq, func() error {
		c.logger.Debug("tab classified",
			zap.Int("tab", ev.TabID),
			zap.String("url", ev.URL),
			zap.Bool("privacy", result.IsPrivacyPage),
			zap.Stringer("platform", result.Platform))

		if !result.IsPrivacyPage {
			return c.setBadge(ev.TabID, "")
		}

		marker := ""
		if current.AutoAnalyze {
			marker = BadgeMarker
		}
		if err := c.setBadge(ev.TabID, marker); err != nil {
			return err
		}

		if current.ShowNotifications && c.surfaces.Notify != nil {
			n := Notification{
				ID:      fmt.Sprintf("detected-%d-%d", ev.TabID, seq),
				Icon:    NotificationIcon,
				Title:   detectTitle,
				Message: fmt.Sprintf(detectMessage, classify.Domain(ev.URL)),
			}
			if err := c.surfaces.Notify.Notify(n); err != nil {
				c.logger.Warn("detection notification failed", zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.syncWidget(ctx, ev.TabID, seq, ev.URL, result.IsPrivacyPage && current.AutoAnalyze)
}

// OnTabRemoved forgets a closed tab and removes its widget
func (c *Coordinator) OnTabRemoved(tabID int) {
	lock := c.widgetLock(tabID)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	delete(c.seqs, tabID)
	delete(c.widgets, tabID)
	c.mu.Unlock()

	if c.surfaces.Tabs != nil {
		c.surfaces.Tabs.Close(tabID)
	}
}

// OnMenuClicked asks the tab to show its widget
func (c *Coordinator) OnMenuClicked(ctx context.Context, tabID int, pageURL string) error {
	if c.surfaces.Tabs == nil {
		return nil
	}
	lock := c.widgetLock(tabID)
	lock.Lock()
	defer lock.Unlock()

	msg := messaging.CreateWidgetMessage{TabID: tabID, URL: pageURL}
	if err := c.surfaces.Tabs.SendToTab(ctx, tabID, msg); err != nil {
		return fmt.Errorf("send to tab %d: %w", tabID, err)
	}
	return nil
}

// observe records a navigation and returns its sequence number
func (c *Coordinator) observe(tabID int) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.seqs[tabID] = c.next
	return c.next
}

// apply runs fn only if seq is still the latest navigation of tabID.
// Holding the lock keeps a check and its side effects atomic.
func (c *Coordinator) apply(tabID int, seq uint64, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seqs[tabID] != seq {
		c.logger.Debug("discarding stale classification", zap.Int("tab", tabID), zap.Uint64("seq", seq))
		return nil
	}
	return fn()
}

// syncWidget removes the tab's widget and, when offer is set, opens one for
// pageURL. Nothing happens once a newer navigation of the tab was observed.
func (c *Coordinator) syncWidget(ctx context.Context, tabID int, seq uint64, pageURL string, offer bool) error {
	if c.surfaces.Tabs == nil {
		return nil
	}
	lock := c.widgetLock(tabID)
	lock.Lock()
	defer lock.Unlock()

	if !c.latest(tabID, seq) {
		return nil
	}
	c.surfaces.Tabs.Close(tabID)
	if !offer {
		return nil
	}

	msg := messaging.CreateWidgetMessage{TabID: tabID, URL: pageURL}
	if err := c.surfaces.Tabs.SendToTab(ctx, tabID, msg); err != nil {
		return fmt.Errorf("send to tab %d: %w", tabID, err)
	}
	return nil
}

// widgetLock serializes widget changes of one tab
func (c *Coordinator) widgetLock(tabID int) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.widgets[tabID]
	if !ok {
		l = &sync.Mutex{}
		c.widgets[tabID] = l
	}
	return l
}

func (c *Coordinator) latest(tabID int, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seqs[tabID] == seq
}

func (c *Coordinator) setBadge(tabID int, text string) error {
	if c.surfaces.Badge == nil {
		return nil
	}
	if text != "" && text != BadgeMarker {
		return fmt.Errorf("%w: %q", ErrInvalidBadge, text)
	}
	color := ""
	if text != "" {
		color = BadgeColor
	}
	if err := c.surfaces.Badge.SetBadge(tabID, text, color); err != nil {
		return fmt.Errorf("set badge: %w", err)
	}
	return nil
}

func (c *Coordinator) fullAnalysisLink(pageURL string) string {
	if pageURL == "" {
		return c.fullURL
	}
	return c.fullURL + "/?url=" + url.QueryEscape(pageURL)
}
