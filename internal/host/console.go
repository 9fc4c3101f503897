package host

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/ppiankov/policywatch/internal/widget"
)

const rule = "═══════════════════════════════════════════════════════════"

// Console renders widget views as text. It satisfies widget.Surface.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	last    widget.View
	renders int
	removed bool
}

// NewConsole creates a console surface writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Render prints v
func (c *Console) Render(v widget.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last = v
	c.renders++
	c.removed = false
	_, _ = io.WriteString(c.out, FormatView(v))
}

// Remove prints a closing marker
func (c *Console) Remove() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removed = true
	_, _ = fmt.Fprintln(c.out, "✕ widget closed")
}

// Last returns the most recent view and whether the widget is still shown
func (c *Console) Last() (widget.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.renders > 0 && !c.removed
}

// FormatView lays out a view the way the in-page widget arranges it
func FormatView(v widget.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n  %s\n%s\n", rule, v.Title, rule)

	if v.HasScore {
		fmt.Fprintf(&b, "\n  %s Score: %d/100 (%s)", bandIcon(v.Band), v.Score, v.Band)
		if v.Source == model.SourceFallback {
			b.WriteString("  [estimate]")
		}
		b.WriteString("\n")
	}

	for _, s := range v.Sections {
		fmt.Fprintf(&b, "\n  %s\n    %s\n", s.Heading, indent(s.Body))
	}

	for _, ex := range v.Chat {
		fmt.Fprintf(&b, "\n  Q: %s\n  A: %s\n", ex.Question, indent(ex.Answer))
	}
	if v.Pending != "" {
		fmt.Fprintf(&b, "\n  Q: %s\n", v.Pending)
	}

	if v.Message != "" {
		fmt.Fprintf(&b, "\n  %s\n", v.Message)
	}

	if actions := actionsFor(v); len(actions) > 0 {
		fmt.Fprintf(&b, "\n  [%s]\n", strings.Join(actions, "] ["))
	}
	if v.FullLink != "" && v.HasScore {
		fmt.Fprintf(&b, "  Full analysis: %s\n", v.FullLink)
	}

	return b.String()
}

func actionsFor(v widget.View) []string {
	var actions []string
	switch v.Offer {
	case widget.OfferAnalyzePolicy:
		actions = append(actions, "analyze")
	case widget.OfferAnalyzeCompany:
		actions = append(actions, "analyze company")
	case widget.OfferRetry:
		actions = append(actions, "retry")
	}
	if v.CanAsk {
		actions = append(actions, "ask")
	}
	if v.CanClose {
		actions = append(actions, "close")
	}
	return actions
}

func bandIcon(band model.RiskBand) string {
	switch band {
	case model.RiskLow:
		return "🟢"
	case model.RiskMedium:
		return "🟡"
	default:
		return "🔴"
	}
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n    ")
}
