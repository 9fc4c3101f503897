package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/messaging"
	"github.com/ppiankov/policywatch/internal/model"
	"go.uber.org/zap"
)

// Register installs one typed handler per request kind on ch
func (c *Coordinator) Register(ch *messaging.Channel) error {
	return errors.Join(
		messaging.Register(ch, messaging.KindAnalyzePolicy, c.handleAnalyzePolicy),
		messaging.Register(ch, messaging.KindAnalyzeCompany, c.handleAnalyzeCompany),
		messaging.Register(ch, messaging.KindAsk, c.handleAsk),
		messaging.Register(ch, messaging.KindOpenFullAnalysis, c.handleOpenFullAnalysis),
		messaging.Register(ch, messaging.KindUpdateBadge, c.handleUpdateBadge),
		messaging.Register(ch, messaging.KindGetSettings, c.handleGetSettings),
		messaging.Register(ch, messaging.KindSetSettings, c.handleSetSettings),
	)
}

func (c *Coordinator) handleAnalyzePolicy(ctx context.Context, req messaging.AnalyzePolicyRequest) (model.AnalysisResult, error) {
	if req.Platform == "" {
		req.Platform = classify.ResolvePlatform(req.URL)
	}
	result := c.analyzer.AnalyzePolicy(ctx, req.Page())
	c.record(ctx, req.URL, req.Platform, result)
	return result, nil
}

func (c *Coordinator) handleAnalyzeCompany(ctx context.Context, req messaging.AnalyzeCompanyRequest) (model.AnalysisResult, error) {
	result := c.analyzer.AnalyzeCompany(ctx, req.Website)
	c.record(ctx, req.Website, classify.ResolvePlatform(req.Website), result)
	return result, nil
}

func (c *Coordinator) handleAsk(ctx context.Context, req messaging.AskRequest) (messaging.AskResponse, error) {
	return messaging.AskResponse{Answer: c.analyzer.Ask(ctx, req.Question, req.Platform)}, nil
}

func (c *Coordinator) handleOpenFullAnalysis(ctx context.Context, req messaging.OpenFullAnalysisRequest) (messaging.Ack, error) {
	if c.surfaces.Opener == nil || c.fullURL == "" {
		return messaging.Ack{}, nil
	}
	if err := c.surfaces.Opener.Open(c.fullAnalysisLink(req.URL)); err != nil {
		return messaging.Ack{}, fmt.Errorf("open full analysis: %w", err)
	}
	return messaging.Ack{}, nil
}

func (c *Coordinator) handleUpdateBadge(ctx context.Context, req messaging.UpdateBadgeRequest) (messaging.Ack, error) {
	return messaging.Ack{}, c.setBadge(req.TabID, req.Text)
}

func (c *Coordinator) handleGetSettings(ctx context.Context, req messaging.GetSettingsRequest) (model.ExtensionSettings, error) {
	return c.settings.Get()
}

func (c *Coordinator) handleSetSettings(ctx context.Context, req messaging.SetSettingsRequest) (messaging.Ack, error) {
	return messaging.Ack{}, c.settings.Update(req.Settings)
}

func (c *Coordinator) record(ctx context.Context, website string, platform model.Platform, result model.AnalysisResult) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, website, platform, result); err != nil {
		c.logger.Warn("history write failed", zap.String("website", website), zap.Error(err))
	}
}
