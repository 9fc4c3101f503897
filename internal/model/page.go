package model

// PageContext bundles everything one analysis request needs.
// It is a value type: build it with NewPageContext and pass it by value.
type PageContext struct {
	url      string
	title    string
	text     string
	platform Platform
}

// NewPageContext builds an immutable page context
func NewPageContext(url, title, extractedText string, platform Platform) PageContext {
	if platform == "" {
		platform = PlatformUnknown
	}
	return PageContext{
		url:      url,
		title:    title,
		text:     extractedText,
		platform: platform,
	}
}

func (p PageContext) URL() string { return p.url }
func (p PageContext) Title() string { return p.title }
func (p PageContext) ExtractedText() string { return p.text }
func (p PageContext) Platform() Platform { return p.platform }
