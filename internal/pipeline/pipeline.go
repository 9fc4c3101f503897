// Package pipeline fetches pages for the CLI host and runs the
// classify, extract and analyze sequence on them without a widget.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/policywatch/internal/analysis"
	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/extract"
	"github.com/ppiankov/policywatch/internal/model"
	"go.uber.org/zap"
)

// Recorder persists finished analyses
type Recorder interface {
	Record(ctx context.Context, website string, platform model.Platform, result model.AnalysisResult) error
}

// Report is the outcome of analyzing one URL
type Report struct {
	URL           string               `json:"url"`
	FinalURL      string               `json:"final_url"`
	Title         string               `json:"title,omitempty"`
	IsPrivacyPage bool                 `json:"is_privacy_page"`
	Platform      model.Platform       `json:"platform"`
	Company       string               `json:"company,omitempty"`
	Result        model.AnalysisResult `json:"result"`
	Band          model.RiskBand       `json:"band"`
	AnalyzedAt    time.Time            `json:"analyzed_at"`
}

// Pipeline analyzes URLs end to end
type Pipeline struct {
	fetcher   *Fetcher
	analyzer  analysis.Analyzer
	extractor *extract.Extractor
	recorder  Recorder
	logger    *zap.Logger
}

// NewPipeline creates a pipeline. recorder may be nil.
func NewPipeline(fetcher *Fetcher, analyzer analysis.Analyzer, textLimit int, recorder Recorder, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		fetcher:   fetcher,
		analyzer:  analyzer,
		extractor: extract.NewExtractor(textLimit),
		recorder:  recorder,
		logger:    logger,
	}
}

// AnalyzeURL fetches rawURL and analyzes it as a policy if it looks like
// one, or as a company site otherwise. forceCompany skips detection.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string, forceCompany bool) (*Report, error) {
	page, err := p.fetcher.Load(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	full, err := extract.PageText(page.doc)
	if err != nil && !errors.Is(err, extract.ErrNoContent) {
		return nil, fmt.Errorf("read %s: %w", page.URL(), err)
	}
	class := classify.Classify(page.URL(), page.Title(), full)

	report := &Report{
		URL:           rawURL,
		FinalURL:      page.URL(),
		Title:         page.Title(),
		IsPrivacyPage: class.IsPrivacyPage,
		Platform:      class.Platform,
		Company:       classify.CompanyName(page.URL()),
	}

	website := page.URL()
	if class.IsPrivacyPage && !forceCompany {
		body, err := p.extractor.Extract(page.doc)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", page.URL(), err)
		}
		pc := model.NewPageContext(page.URL(), page.Title(), body, class.Platform)
		report.Result = p.analyzer.AnalyzePolicy(ctx, pc)
	} else {
		website = classify.Origin(page.URL())
		report.Result = p.analyzer.AnalyzeCompany(ctx, website)
	}

	report.Band = report.Result.Band()
	report.AnalyzedAt = time.Now().UTC()

	p.logger.Debug("analyzed",
		zap.String("url", rawURL),
		zap.Bool("privacy", report.IsPrivacyPage),
		zap.Int("score", report.Result.Score),
		zap.String("source", string(report.Result.Source)))

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, website, report.Platform, report.Result); err != nil {
			p.logger.Warn("history write failed", zap.Error(err))
		}
	}

	return report, nil
}
