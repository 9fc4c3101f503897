package widget

import (
	"fmt"
	"net/url"

	"github.com/ppiankov/policywatch/internal/model"
)

// Mode distinguishes a detected policy page from an ambient company offer
type Mode int

const (
	ModePolicy Mode = iota
	ModeCompany
)

func (m Mode) String() string {
	if m == ModeCompany {
		return "company"
	}
	return "policy"
}

// Offer is the primary action a view invites
type Offer string

const (
	OfferNone           Offer = ""
	OfferAnalyzePolicy  Offer = "analyze-policy"
	OfferAnalyzeCompany Offer = "analyze-company"
	OfferRetry          Offer = "retry"
)

// Section is one headed block of result text
type Section struct {
	Heading string
	Body    string
}

// Snapshot is everything BuildView needs, copied out of a Controller
type Snapshot struct {
	State           model.WidgetState
	Mode            Mode
	URL             string
	Company         string
	Platform        model.Platform
	Result          *model.AnalysisResult
	Chat            []model.ChatExchange
	PendingQuestion string
	FullAnalysisURL string
}

// View is the rendered presentation of a widget. It carries no behavior.
type View struct {
	State       model.WidgetState
	Title       string
	Message     string
	Offer       Offer
	HasScore    bool
	Score       int
	Band        model.RiskBand
	Source      model.Source
	Sections    []Section
	Chat        []model.ChatExchange
	Pending     string
	CanAnalyze  bool
	CanAsk      bool
	CanClose    bool
	AutoDismiss bool
	FullLink    string
}

// Display strings
const (
	titleDetected   = "Privacy policy detected"
	titleChecking   = "Checking this page..."
	titleLoading    = "Analyzing privacy policy..."
	titleError      = "Analysis failed"
	messageOffer    = "Analyze this policy to see how your data is handled."
	messageLoading  = "Reading the page and scoring its data practices."
	messageError    = "We could not read any policy text from this page. Try again, or open the full web application for a detailed analysis."
	messageThinking = "Thinking..."
)

// BuildView turns a snapshot into a view. It is a pure function.
func BuildView(s Snapshot) View {
	v := View{
		State:    s.State,
		CanClose: s.State != model.StateIdle,
		Chat:     append([]model.ChatExchange(nil), s.Chat...),
		FullLink: fullAnalysisLink(s.FullAnalysisURL, s.URL),
	}

	switch s.State {
	case model.StateIdle:
		v.CanClose = false

	case model.StateDetecting:
		if s.Mode == ModeCompany {
			v.Title = titleChecking
			break
		}
		v.Title = titleDetected
		v.Message = messageOffer
		v.Offer = OfferAnalyzePolicy
		v.CanAnalyze = true

	case model.StateLoading:
		v.Title = titleLoading
		v.Message = messageLoading

	case model.StateError:
		v.Title = titleError
		v.Message = messageError
		v.Offer = OfferRetry
		v.CanAnalyze = true

	case model.StateResult, model.StateChat:
		if s.Result == nil {
			// ambient company offer
			v.Title = fmt.Sprintf("Curious about %s?", companyLabel(s.Company))
			v.Message = fmt.Sprintf("Analyze how %s handles your personal data.", companyLabel(s.Company))
			v.Offer = OfferAnalyzeCompany
			v.CanAnalyze = true
			v.AutoDismiss = true
			break
		}
		fillResult(&v, s)
		v.CanAsk = s.State == model.StateResult
		if s.State == model.StateChat {
			v.Pending = s.PendingQuestion
			v.Message = messageThinking
		}
	}

	return v
}

func fillResult(v *View, s Snapshot) {
	r := s.Result
	v.Title = fmt.Sprintf("%s privacy analysis", resultSubject(s))
	v.HasScore = true
	v.Score = r.Score
	v.Band = r.Band()
	v.Source = r.Source

	v.Sections = append(v.Sections, Section{Heading: "Most concerning practices", Body: r.HarmfulPoints})
	if r.WorstData != "" {
		v.Sections = append(v.Sections, Section{Heading: "Most sensitive data", Body: r.WorstData})
	}
	v.Sections = append(v.Sections, Section{Heading: "Recommendation", Body: r.Recommendation})
}

func resultSubject(s Snapshot) string {
	if s.Platform.IsKnown() {
		return s.Platform.String()
	}
	return companyLabel(s.Company)
}

func companyLabel(company string) string {
	if company == "" {
		return "this company"
	}
	return company
}

func fullAnalysisLink(base, pageURL string) string {
	if base == "" {
		return ""
	}
	if pageURL == "" {
		return base
	}
	return base + "/?url=" + url.QueryEscape(pageURL)
}
