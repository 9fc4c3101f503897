package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ppiankov/policywatch/internal/coordinator"
	"github.com/ppiankov/policywatch/internal/host"
	"github.com/ppiankov/policywatch/internal/widget"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errQuit = errors.New("quit")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Simulate a browser session driven by commands on stdin",
	Long: `Watch runs the background coordinator the way a browser would: every
"open" is a finished navigation that is classified and reflected in the
tab's badge and notifications. Navigations are handled concurrently; only
the latest one of each tab takes effect.

Commands:
  open <tab> <url> [title]   a tab finished loading url
  close <tab>                the tab was closed
  menu <tab> [url]           context menu click: show the widget
  analyze <tab>              press the widget's analyze button
  retry <tab>                retry after an error
  ask <tab> <question>       ask a follow-up question
  dismiss <tab>              close the widget
  badge <tab>                print the tab's badge
  quit                       exit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

type watchCommand struct {
	verb string
	tab  int
	arg  string
	rest string
}

// parseWatchCommand splits a stdin line into verb, tab and arguments
func parseWatchCommand(line string) (watchCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return watchCommand{}, nil
	}

	cmd := watchCommand{verb: strings.ToLower(fields[0])}
	switch cmd.verb {
	case "quit", "exit":
		return cmd, nil
	case "open", "close", "menu", "analyze", "retry", "ask", "dismiss", "badge":
	default:
		return cmd, fmt.Errorf("unknown command %q", fields[0])
	}

	if len(fields) < 2 {
		return cmd, fmt.Errorf("%s: missing tab id", cmd.verb)
	}
	tab, err := strconv.Atoi(fields[1])
	if err != nil || tab < 0 {
		return cmd, fmt.Errorf("%s: invalid tab id %q", cmd.verb, fields[1])
	}
	cmd.tab = tab

	switch cmd.verb {
	case "open":
		if len(fields) < 3 {
			return cmd, errors.New("open: missing url")
		}
		cmd.arg = fields[2]
		cmd.rest = strings.Join(fields[3:], " ")
	case "menu":
		if len(fields) > 2 {
			cmd.arg = fields[2]
		}
	case "ask":
		cmd.rest = strings.Join(fields[2:], " ")
		if cmd.rest == "" {
			return cmd, errors.New("ask: missing question")
		}
	}
	return cmd, nil
}

// session is the mutable state of one watch run. Only the dispatch loop
// touches it.
type session struct {
	a      *app
	tabs   *host.Tabs
	badges *host.Badges
	out    io.Writer
	urls   map[int]string
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	surfaces := consoleSurfaces(out)
	badges := surfaces.Badge.(*host.Badges)

	var a *app
	manager := widget.NewManager(func(string) *widget.Controller {
		return a.newWidget(host.NewConsole(out))
	})
	tabs := host.NewTabs(manager, func(ctx context.Context, url string) (widget.Page, error) {
		return a.loader()(ctx, url)
	}, logger.Named("tabs"))
	surfaces.Tabs = tabs

	a, err := newApp(appOptions{surfaces: surfaces, probe: true})
	if err != nil {
		return err
	}
	defer a.close()
	defer manager.CloseAll()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := a.coord.OnInstalled(ctx); err != nil {
		return err
	}

	s := &session{a: a, tabs: tabs, badges: badges, out: out, urls: make(map[int]string)}

	// the reader cannot be interrupted, so it stays outside the group
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				err := s.dispatch(gctx, g, line)
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					fmt.Fprintf(os.Stderr, "✗ %v\n", err)
				}
			}
		}
	})
	return g.Wait()
}

func (s *session) dispatch(ctx context.Context, g *errgroup.Group, line string) error {
	c, err := parseWatchCommand(line)
	if err != nil || c.verb == "" {
		return err
	}

	switch c.verb {
	case "quit", "exit":
		return errQuit

	case "open":
		s.urls[c.tab] = c.arg
		ev := coordinator.TabEvent{TabID: c.tab, URL: c.arg, Title: c.rest}
		g.Go(func() error {
			if err := s.a.coord.OnTabCompleted(ctx, ev); err != nil {
				s.a.logger.Warn("tab update failed", zap.Int("tab", ev.TabID), zap.Error(err))
			}
			return nil
		})
		return nil

	case "close":
		delete(s.urls, c.tab)
		s.a.coord.OnTabRemoved(c.tab)
		return nil

	case "menu":
		url := c.arg
		if url == "" {
			url = s.urls[c.tab]
		}
		if url == "" {
			return fmt.Errorf("menu: tab %d has no page", c.tab)
		}
		return s.a.coord.OnMenuClicked(ctx, c.tab, url)

	case "badge":
		b := s.badges.Get(c.tab)
		if b.Text == "" {
			fmt.Fprintf(s.out, "tab %d: no badge\n", c.tab)
		} else {
			fmt.Fprintf(s.out, "tab %d: badge %q %s\n", c.tab, b.Text, b.Color)
		}
		return nil
	}

	w, ok := s.tabs.Widget(c.tab)
	if !ok {
		return fmt.Errorf("%s: tab %d has no widget, use menu first", c.verb, c.tab)
	}
	switch c.verb {
	case "analyze":
		return w.Analyze(ctx)
	case "retry":
		return w.Retry(ctx)
	case "ask":
		return w.Ask(ctx, c.rest)
	case "dismiss":
		s.tabs.Close(c.tab)
	}
	return nil
}
