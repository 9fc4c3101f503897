// Package widget implements the presentation state machine shared by the
// in-page widget and the popup panel.
//
// A Controller owns one widget instance. It never touches a host surface
// directly beyond Surface.Render and Surface.Remove, and it releases its
// lock around every network call so Close is always immediate. Results that
// arrive after Close are dropped.
package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/policywatch/internal/analysis"
	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/extract"
	"github.com/ppiankov/policywatch/internal/model"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultAutoDismiss closes an ambient offer nobody interacted with
const DefaultAutoDismiss = 8 * time.Second

// Page is the host page a widget is attached to
type Page interface {
	URL() string
	Title() string
	Document() (*html.Node, error)
}

// Surface is where views are shown
type Surface interface {
	Render(v View)
	Remove()
}

// AfterFunc schedules f after d and returns a function that cancels it
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func stdAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Controller drives one widget instance
type Controller struct {
	analyzer    analysis.Analyzer
	extractor   *extract.Extractor
	surface     Surface
	afterFunc   AfterFunc
	autoDismiss time.Duration
	fullURL     string
	logger      *zap.Logger

	mu         sync.Mutex
	state      model.WidgetState
	generation uint64
	mode       Mode
	page       Page
	class      classify.Classification
	result     *model.AnalysisResult
	chat       []model.ChatExchange
	pending    string
	stopTimer  func() bool
}

// Option configures a Controller
type Option func(*Controller)

// WithExtractor sets the text extractor and thereby the text bound
func WithExtractor(e *extract.Extractor) Option {
	return func(c *Controller) { c.extractor = e }
}

// WithAutoDismiss sets the ambient offer delay
func WithAutoDismiss(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.autoDismiss = d
		}
	}
}

// WithAfterFunc replaces the timer source
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = f }
}

// WithFullAnalysisURL sets the base URL of the full web application
func WithFullAnalysisURL(u string) Option {
	return func(c *Controller) { c.fullURL = u }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates an idle controller
func NewController(analyzer analysis.Analyzer, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		analyzer:    analyzer,
		extractor:   extract.NewExtractor(extract.InPageLimit),
		surface:     surface,
		afterFunc:   stdAfterFunc,
		autoDismiss: DefaultAutoDismiss,
		logger:      zap.NewNop(),
		state:       model.StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() model.WidgetState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the current view
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildView(c.snapshotLocked())
}

// URL returns the address of the attached page, or "" when idle
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == model.StateIdle || c.page == nil {
		return ""
	}
	return c.page.URL()
}

// Chat returns the exchanges of this instance
func (c *Controller) Chat() []model.ChatExchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatExchange(nil), c.chat...)
}

// Open attaches the widget to page and classifies it. A privacy page stays
// in Detecting with an analyze offer; any other page gets the ambient
// company offer, which dismisses itself unless the user acts.
func (c *Controller) Open(page Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateIdle {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, c.state)
	}

	c.resetLocked()
	c.page = page
	c.class = classify.Classify(page.URL(), page.Title(), c.bodyText(page))
	if !c.class.IsPrivacyPage {
		c.mode = ModeCompany
	}
	c.transitionLocked(model.StateDetecting)
	if c.mode == ModePolicy {
		return nil
	}

	gen := c.generation
	c.stopTimer = c.afterFunc(c.autoDismiss, func() { c.dismiss(gen) })
	c.transitionLocked(model.StateResult)
	return nil
}

// Analyze runs the analysis offered by the current view. Extraction
// failure moves the widget to Error; backend failure never does.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.canAnalyzeLocked() {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: analyze from %s", ErrInvalidTransition, state)
	}

	c.cancelTimerLocked()
	c.transitionLocked(model.StateLoading)
	gen, mode, page, platform := c.generation, c.mode, c.page, c.class.Platform
	c.mu.Unlock()

	var result model.AnalysisResult
	if mode == ModeCompany {
		result = c.analyzer.AnalyzeCompany(ctx, classify.Origin(page.URL()))
	} else {
		text, err := c.extractPage(page)
		if err != nil {
			c.fail(gen, err)
			return fmt.Errorf("extract page: %w", err)
		}
		pc := model.NewPageContext(page.URL(), page.Title(), text, platform)
		result = c.analyzer.AnalyzePolicy(ctx, pc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.logger.Debug("dropping analysis for closed widget", zap.String("url", page.URL()))
		return nil
	}
	c.result = &result
	c.transitionLocked(model.StateResult)
	return nil
}

// Retry re-runs Analyze from Error
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	if state != model.StateError {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, state)
	}
	return c.Analyze(ctx)
}

// Ask sends a follow-up question about the analyzed platform. Blank
// questions are ignored.
func (c *Controller) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != model.StateResult || c.result == nil {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: ask from %s", ErrInvalidTransition, state)
	}

	c.pending = question
	c.transitionLocked(model.StateChat)
	gen, platform := c.generation, c.class.Platform
	c.mu.Unlock()

	answer := c.analyzer.Ask(ctx, question, platform)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.chat = append(c.chat, model.ChatExchange{Question: question, Answer: answer})
	c.pending = ""
	c.transitionLocked(model.StateResult)
	return nil
}

// Close removes the widget from any state. It always succeeds.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) dismiss(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != model.StateResult || c.result != nil {
		return
	}
	c.logger.Debug("auto-dismissing ambient offer")
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if c.state == model.StateIdle {
		return
	}
	c.cancelTimerLocked()
	c.generation++
	c.state = model.StateIdle
	c.resetLocked()
	if c.surface != nil {
		c.surface.Remove()
	}
	c.logger.Debug("widget closed")
}

func (c *Controller) fail(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.logger.Info("text extraction failed", zap.Error(err))
	c.transitionLocked(model.StateError)
}

func (c *Controller) transitionLocked(next model.WidgetState) {
	c.logger.Debug("widget transition",
		zap.Stringer("from", c.state),
		zap.Stringer("to", next))
	c.state = next
	if c.surface != nil {
		c.surface.Render(BuildView(c.snapshotLocked()))
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:           c.state,
		Mode:            c.mode,
		Platform:        c.class.Platform,
		Result:          c.result,
		Chat:            c.chat,
		PendingQuestion: c.pending,
		FullAnalysisURL: c.fullURL,
	}
	if c.page != nil {
		s.URL = c.page.URL()
		s.Company = classify.CompanyName(c.page.URL())
	}
	return s
}

func (c *Controller) busyLocked() bool {
	return c.state == model.StateLoading || c.state == model.StateChat
}

func (c *Controller) canAnalyzeLocked() bool {
	switch c.state {
	case model.StateDetecting:
		return c.mode == ModePolicy
	case model.StateResult:
		return c.mode == ModeCompany && c.result == nil
	case model.StateError:
		return true
	}
	return false
}

func (c *Controller) cancelTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
}

func (c *Controller) resetLocked() {
	c.page = nil
	c.class = classify.Classification{}
	c.mode = ModePolicy
	c.result = nil
	c.chat = nil
	c.pending = ""
}

func (c *Controller) extractPage(page Page) (string, error) {
	doc, err := page.Document()
	if err != nil {
		return "", err
	}
	return c.extractor.Extract(doc)
}

// bodyText feeds the classifier's body rule with the whole page text;
// unreadable pages classify on URL and title alone
func (c *Controller) bodyText(page Page) string {
	doc, err := page.Document()
	if err != nil {
		return ""
	}
	text, err := extract.PageText(doc)
	if err != nil {
		return ""
	}
	return text
}
