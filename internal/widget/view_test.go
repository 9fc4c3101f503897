package widget

import (
	"testing"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildView_Result(t *testing.T) {
	result := model.AnalysisResult{
		Score:          72,
		HarmfulPoints:  "Shares search history",
		Recommendation: "Use private browsing",
		Source:         model.SourceFallback,
	}
	v := BuildView(Snapshot{
		State:           model.StateResult,
		URL:             "https://www.finn.no/personvern",
		Platform:        model.PlatformFinn,
		Result:          &result,
		FullAnalysisURL: "http://localhost:8501",
	})

	assert.Equal(t, "Finn.no privacy analysis", v.Title)
	assert.Equal(t, model.RiskLow, v.Band)
	assert.True(t, v.CanAsk)
	assert.True(t, v.CanClose)
	assert.False(t, v.CanAnalyze)
	assert.Equal(t, []Section{
		{Heading: "Most concerning practices", Body: "Shares search history"},
		{Heading: "Recommendation", Body: "Use private browsing"},
	}, v.Sections, "missing worst_data is omitted, not rendered empty")
	assert.Equal(t, "http://localhost:8501/?url=https%3A%2F%2Fwww.finn.no%2Fpersonvern", v.FullLink)
}

func TestBuildView_UnknownPlatformUsesCompany(t *testing.T) {
	result := model.AnalysisResult{Score: 50, HarmfulPoints: "x", WorstData: "y", Recommendation: "z"}
	v := BuildView(Snapshot{State: model.StateResult, Company: "Spotify", Platform: model.PlatformUnknown, Result: &result})

	assert.Equal(t, "Spotify privacy analysis", v.Title)
	assert.Len(t, v.Sections, 3)
	assert.Equal(t, model.RiskMedium, v.Band)
}

func TestBuildView_ChatDisablesAsk(t *testing.T) {
	result := model.AnalysisResult{Score: 10, HarmfulPoints: "x", Recommendation: "z"}
	history := []model.ChatExchange{{Question: "q1", Answer: "a1"}}
	v := BuildView(Snapshot{State: model.StateChat, Result: &result, Chat: history, PendingQuestion: "q2"})

	assert.False(t, v.CanAsk)
	assert.Equal(t, "q2", v.Pending)
	assert.Equal(t, history, v.Chat)

	// the view owns its copy
	v.Chat[0].Answer = "changed"
	assert.Equal(t, "a1", history[0].Answer)
}

func TestBuildView_Offers(t *testing.T) {
	tests := []struct {
		name  string
		snap  Snapshot
		offer Offer
	}{
		{"policy detected", Snapshot{State: model.StateDetecting}, OfferAnalyzePolicy},
		{"company checking", Snapshot{State: model.StateDetecting, Mode: ModeCompany}, OfferNone},
		{"ambient", Snapshot{State: model.StateResult, Mode: ModeCompany}, OfferAnalyzeCompany},
		{"loading", Snapshot{State: model.StateLoading}, OfferNone},
		{"error", Snapshot{State: model.StateError}, OfferRetry},
		{"idle", Snapshot{State: model.StateIdle}, OfferNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := BuildView(tt.snap)
			assert.Equal(t, tt.offer, v.Offer)
			assert.Equal(t, tt.offer != OfferNone, v.CanAnalyze)
		})
	}
}

func TestBuildView_AmbientWithoutCompany(t *testing.T) {
	v := BuildView(Snapshot{State: model.StateResult, Mode: ModeCompany})
	assert.Equal(t, "Curious about this company?", v.Title)
	assert.True(t, v.AutoDismiss)
	assert.Empty(t, v.FullLink)
}

func TestBuildView_IdleCannotClose(t *testing.T) {
	assert.False(t, BuildView(Snapshot{State: model.StateIdle}).CanClose)
}
