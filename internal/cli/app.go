package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/policywatch/internal/analysis"
	"github.com/ppiankov/policywatch/internal/cache"
	"github.com/ppiankov/policywatch/internal/coordinator"
	"github.com/ppiankov/policywatch/internal/extract"
	"github.com/ppiankov/policywatch/internal/history"
	"github.com/ppiankov/policywatch/internal/host"
	"github.com/ppiankov/policywatch/internal/messaging"
	"github.com/ppiankov/policywatch/internal/model"
	"github.com/ppiankov/policywatch/internal/pipeline"
	"github.com/ppiankov/policywatch/internal/settings"
	"github.com/ppiankov/policywatch/internal/widget"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const rule = "═══════════════════════════════════════════════════════════"

// app is the wired host: one backend client, one settings service and the
// background coordinator answering a message channel
type app struct {
	cfg      *model.Config
	logger   *zap.Logger
	client   *analysis.Client
	fetcher  *pipeline.Fetcher
	settings *settings.Service
	history  *history.Store
	channel  *messaging.Channel
	coord    *coordinator.Coordinator
}

type appOptions struct {
	surfaces coordinator.Surfaces
	probe    bool
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	clientOpts := []analysis.Option{
		analysis.WithTimeout(cfg.Backend.Timeout),
		analysis.WithLogger(logger.Named("analysis")),
	}
	if cfg.Cache.Enabled {
		store := cache.NewTiered(cache.NewMemoryStore(10*time.Minute), cache.NewDiskStore(cfg.Cache.Dir))
		clientOpts = append(clientOpts, analysis.WithResultCache(cache.NewResults(store, cfg.Cache.TTL)))
	}
	a.client = analysis.NewClient(cfg.Backend.BaseURL, clientOpts...)
	a.fetcher = pipeline.NewFetcher(cfg.HTTP, logger.Named("fetch"))
	a.settings = settings.NewService(settings.NewFileStore(cfg.Settings.Path), logger.Named("settings"))

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Dir)
		if err != nil {
			return nil, err
		}
		a.history = store
	}

	coordOpts := []coordinator.Option{
		coordinator.WithFullAnalysisURL(cfg.Backend.FullAnalysisURL),
		coordinator.WithLogger(logger.Named("coordinator")),
	}
	if opts.probe {
		coordOpts = append(coordOpts, coordinator.WithPageProbe(a.fetcher))
	}
	if a.history != nil {
		coordOpts = append(coordOpts, coordinator.WithRecorder(a.history))
	}
	a.coord = coordinator.New(a.settings, a.client, opts.surfaces, coordOpts...)

	a.channel = messaging.NewChannel(cfg.Messaging.Timeout, logger.Named("messaging"))
	if err := a.coord.Register(a.channel); err != nil {
		a.close()
		return nil, fmt.Errorf("register handlers: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}

// recorder returns the history store as a pipeline recorder, or nil
func (a *app) recorder() pipeline.Recorder {
	if a.history == nil {
		return nil
	}
	return a.history
}

// pipeline analyzes URLs directly against the backend client
func (a *app) newPipeline() *pipeline.Pipeline {
	return pipeline.NewPipeline(a.fetcher, a.client, a.cfg.Widget.PopupLimit, a.recorder(), a.logger.Named("pipeline"))
}

// newWidget builds a widget that reaches the backend through the channel
func (a *app) newWidget(surface widget.Surface) *widget.Controller {
	return widget.NewController(
		messaging.NewRemoteAnalyzer(a.channel, a.logger.Named("widget")),
		surface,
		widget.WithExtractor(extract.NewExtractor(a.cfg.Widget.InPageLimit)),
		widget.WithAutoDismiss(a.cfg.Widget.AutoDismiss),
		widget.WithFullAnalysisURL(a.cfg.Backend.FullAnalysisURL),
		widget.WithLogger(a.logger.Named("widget")),
	)
}

// loader fetches pages for widgets
func (a *app) loader() host.Loader {
	return func(ctx context.Context, url string) (widget.Page, error) {
		page, err := a.fetcher.Load(ctx, url)
		if err != nil {
			return nil, err
		}
		return page, nil
	}
}

// consoleSurfaces prints notifications and opened links to out
func consoleSurfaces(out io.Writer) coordinator.Surfaces {
	return coordinator.Surfaces{
		Badge:  host.NewBadges(logger.Named("badge")),
		Notify: host.NewNotifications(out),
		Menu:   &host.Menu{},
		Opener: host.NewOpener(out),
	}
}
