package messaging

import "github.com/ppiankov/policywatch/internal/model"

// Kind names a request type carried over a Channel
type Kind string

// Request kinds answered by the background coordinator
const (
	KindAnalyzePolicy    Kind = "analyze-policy"
	KindAnalyzeCompany   Kind = "analyze-company"
	KindAsk              Kind = "ask"
	KindOpenFullAnalysis Kind = "open-full-analysis"
	KindUpdateBadge      Kind = "update-badge"
	KindGetSettings      Kind = "get-settings"
	KindSetSettings      Kind = "set-settings"
)

// KindCreateWidget is sent from the coordinator to a tab
const KindCreateWidget Kind = "create-widget"

// AnalyzePolicyRequest carries an extracted page to the analyzer
type AnalyzePolicyRequest struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Platform model.Platform `json:"platform"`
}

// Page rebuilds the immutable page context
func (r AnalyzePolicyRequest) Page() model.PageContext {
	return model.NewPageContext(r.URL, r.Title, r.Text, r.Platform)
}

// AnalyzeCompanyRequest asks for analysis of a company site
type AnalyzeCompanyRequest struct {
	Website string `json:"website"`
}

// AskRequest is a follow-up chat question
type AskRequest struct {
	Question string         `json:"question"`
	Platform model.Platform `json:"platform"`
}

// AskResponse carries the chat answer
type AskResponse struct {
	Answer string `json:"answer"`
}

// OpenFullAnalysisRequest opens the full web application for a page
type OpenFullAnalysisRequest struct {
	URL string `json:"url"`
}

// UpdateBadgeRequest sets the badge text for a tab
type UpdateBadgeRequest struct {
	TabID int    `json:"tab_id"`
	Text  string `json:"text"`
}

// GetSettingsRequest has no fields
type GetSettingsRequest struct{}

// SetSettingsRequest replaces the persisted settings
type SetSettingsRequest struct {
	Settings model.ExtensionSettings `json:"settings"`
}

// Ack is the empty success response
type Ack struct{}

// CreateWidgetMessage asks a tab to show its widget
type CreateWidgetMessage struct {
	TabID int    `json:"tab_id"`
	URL   string `json:"url"`
}
