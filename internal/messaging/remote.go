package messaging

import (
	"context"

	"github.com/ppiankov/policywatch/internal/analysis"
	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/model"
	"go.uber.org/zap"
)

// RemoteAnalyzer forwards analysis requests over a Channel. It satisfies
// analysis.Analyzer, so a widget can run in a context that has no backend
// client of its own. A failed exchange degrades like a failed backend call.
type RemoteAnalyzer struct {
	ch     *Channel
	logger *zap.Logger
}

// NewRemoteAnalyzer creates an analyzer that talks to ch
func NewRemoteAnalyzer(ch *Channel, logger *zap.Logger) *RemoteAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteAnalyzer{ch: ch, logger: logger}
}

func (r *RemoteAnalyzer) AnalyzePolicy(ctx context.Context, page model.PageContext) model.AnalysisResult {
	req := AnalyzePolicyRequest{
		URL:      page.URL(),
		Title:    page.Title(),
		Text:     page.ExtractedText(),
		Platform: page.Platform(),
	}
	result, err := Send[AnalyzePolicyRequest, model.AnalysisResult](ctx, r.ch, KindAnalyzePolicy, req)
	if err != nil {
		r.logger.Warn("analyze-policy exchange failed", zap.Error(err))
		return analysis.Fallback(page.Platform())
	}
	return result
}

func (r *RemoteAnalyzer) AnalyzeCompany(ctx context.Context, website string) model.AnalysisResult {
	result, err := Send[AnalyzeCompanyRequest, model.AnalysisResult](ctx, r.ch, KindAnalyzeCompany, AnalyzeCompanyRequest{Website: website})
	if err != nil {
		r.logger.Warn("analyze-company exchange failed", zap.Error(err))
		return analysis.Fallback(classify.ResolvePlatform(website))
	}
	return result
}

func (r *RemoteAnalyzer) Ask(ctx context.Context, question string, platform model.Platform) string {
	resp, err := Send[AskRequest, AskResponse](ctx, r.ch, KindAsk, AskRequest{Question: question, Platform: platform})
	if err != nil {
		r.logger.Warn("ask exchange failed", zap.Error(err))
		return analysis.UnavailableMessage
	}
	return resp.Answer
}
