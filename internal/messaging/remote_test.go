package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/policywatch/internal/analysis"
	"github.com/ppiankov/policywatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteAnalyzer_ForwardsRequests(t *testing.T) {
	ch := NewChannel(time.Second, nil)
	require.NoError(t, Register(ch, KindAnalyzePolicy, func(ctx context.Context, req AnalyzePolicyRequest) (model.AnalysisResult, error) {
		return model.AnalysisResult{Score: len(req.Text), HarmfulPoints: req.Title, Recommendation: "r", Source: model.SourceRemote}, nil
	}))
	require.NoError(t, Register(ch, KindAnalyzeCompany, func(ctx context.Context, req AnalyzeCompanyRequest) (model.AnalysisResult, error) {
		return model.AnalysisResult{Score: 80, HarmfulPoints: req.Website, Recommendation: "r", Source: model.SourceRemote}, nil
	}))
	require.NoError(t, Register(ch, KindAsk, func(ctx context.Context, req AskRequest) (AskResponse, error) {
		return AskResponse{Answer: req.Platform.String() + "?" + req.Question}, nil
	}))

	r := NewRemoteAnalyzer(ch, nil)
	ctx := context.Background()

	policy := r.AnalyzePolicy(ctx, model.NewPageContext("https://x.test/privacy", "Privacy", "12345", model.PlatformUnknown))
	assert.Equal(t, 5, policy.Score)
	assert.Equal(t, "Privacy", policy.HarmfulPoints)

	company := r.AnalyzeCompany(ctx, "https://x.test")
	assert.Equal(t, "https://x.test", company.HarmfulPoints)

	assert.Equal(t, "Tinder?hi", r.Ask(ctx, "hi", model.PlatformTinder))
}

func TestRemoteAnalyzer_DegradesWithoutHandlers(t *testing.T) {
	r := NewRemoteAnalyzer(NewChannel(time.Second, nil), nil)
	ctx := context.Background()

	policy := r.AnalyzePolicy(ctx, model.NewPageContext("https://www.tiktok.com/privacy", "", "text", model.PlatformTikTok))
	assert.Equal(t, analysis.Fallback(model.PlatformTikTok), policy)

	company := r.AnalyzeCompany(ctx, "https://www.instagram.com")
	assert.Equal(t, analysis.Fallback(model.PlatformInstagram), company)

	assert.Equal(t, analysis.UnavailableMessage, r.Ask(ctx, "q", model.PlatformUnknown))
}
