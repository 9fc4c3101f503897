// Package classify decides whether a page is a privacy or terms document
// and which platform it belongs to. Everything here is a pure function of
// its inputs: no network, no side effects, no errors.
package classify

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/policywatch/internal/model"
	"golang.org/x/net/publicsuffix"
)

// policyKeywords trigger privacy-page detection in URL or title
var policyKeywords = []string{
	"privacy", "policy", "terms", "conditions", "data", "cookies", "cookie",
	// no
	"personvern", "vilkår", "retningslinjer",
	// de
	"datenschutz", "nutzungsbedingungen",
	// fr, es, pt
	"confidentialité", "confidentialite", "privacidad", "privacidade",
}

// bodyCoToken must co-occur with a keyword for a body-only match
const bodyCoToken = "collect"

// platformHosts is checked in order against the hostname; first match wins
var platformHosts = []struct {
	needle   string
	platform model.Platform
}{
	{"facebook", model.PlatformFacebook},
	{"instagram", model.PlatformInstagram},
	{"tiktok", model.PlatformTikTok},
	{"tinder", model.PlatformTinder},
	{"whatsapp", model.PlatformWhatsApp},
	{"finn.no", model.PlatformFinn},
	{"linkedin", model.PlatformLinkedIn},
	{"twitter", model.PlatformTwitter},
}

// Classification is the classifier's verdict for one page
type Classification struct {
	IsPrivacyPage bool           `json:"is_privacy_page"`
	Platform      model.Platform `json:"platform"`
}

// Classify reports whether the page is a policy document and resolves its
// platform. The body only counts when it also mentions "collect", so pages
// that merely say "data" in passing are not flagged.
func Classify(rawURL, title, body string) Classification {
	return Classification{
		IsPrivacyPage: IsPrivacyPage(rawURL, title, body),
		Platform:      ResolvePlatform(rawURL),
	}
}

// IsPrivacyPage applies the keyword heuristics
func IsPrivacyPage(rawURL, title, body string) bool {
	if containsAny(rawURL, policyKeywords) || containsAny(title, policyKeywords) {
		return true
	}

	lowerBody := strings.ToLower(body)
	return strings.Contains(lowerBody, bodyCoToken) && containsAny(lowerBody, policyKeywords)
}

// ResolvePlatform maps a URL's hostname to a known platform.
// Malformed URLs and unrecognized hosts resolve to PlatformUnknown.
func ResolvePlatform(rawURL string) model.Platform {
	host := Hostname(rawURL)
	if host == "" {
		return model.PlatformUnknown
	}

	for _, candidate := range platformHosts {
		if strings.Contains(host, candidate.needle) {
			return candidate.platform
		}
	}
	return model.PlatformUnknown
}

// Hostname returns the lower-cased hostname of rawURL, tolerating inputs
// without a scheme. It returns "" when no host can be found.
func Hostname(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := parsed.Hostname()
	if strings.Trim(host, ":[]") == "" {
		return ""
	}
	return strings.ToLower(host)
}

// Domain returns the hostname without a leading "www."
func Domain(rawURL string) string {
	return strings.TrimPrefix(Hostname(rawURL), "www.")
}

// Origin reduces rawURL to scheme and host, the form company analysis
// expects. Unparseable input is returned unchanged.
func Origin(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

// CompanyName derives a display name from the registrable domain,
// e.g. "shop.example.co.uk" -> "Example". Falls back to the bare host.
func CompanyName(rawURL string) string {
	host := Domain(rawURL)
	if host == "" {
		return ""
	}

	name := host
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		suffix, _ := publicsuffix.PublicSuffix(host)
		name = strings.TrimSuffix(etld1, "."+suffix)
	}

	if name == "" {
		return host
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
