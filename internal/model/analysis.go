package model

// Source tags where an AnalysisResult came from
type Source string

const (
	SourceRemote   Source = "remote"   // Computed by the backend
	SourceFallback Source = "fallback" // Substituted from the static dataset
)

// RiskBand is the human-readable banding of a score
type RiskBand string

const (
	RiskLow    RiskBand = "Low Risk"
	RiskMedium RiskBand = "Medium Risk"
	RiskHigh   RiskBand = "High Risk"
)

// AnalysisResult is a risk score plus explanatory text
type AnalysisResult struct {
	Score          int    `json:"score"`                // 0-100, higher is safer
	HarmfulPoints  string `json:"harmful_points"`       // Most concerning practices
	WorstData      string `json:"worst_data,omitempty"` // Optional: most sensitive data collected
	Recommendation string `json:"recommendation"`       // What the user should do
	Source         Source `json:"source"`               // remote or fallback
}

// Band returns the risk band for the result's score
func (r AnalysisResult) Band() RiskBand {
	return BandFor(r.Score)
}

// BandFor bands a raw score: >=70 low, 50-69 medium, <50 high
func BandFor(score int) RiskBand {
	switch {
	case score >= 70:
		return RiskLow
	case score >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ChatExchange is one question/answer pair from the follow-up chat
type ChatExchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
