package model

import "strings"

// Platform identifies a recognized service a page may belong to
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformTinder    Platform = "Tinder"
	PlatformWhatsApp  Platform = "WhatsApp"
	PlatformFinn      Platform = "Finn.no"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTwitter   Platform = "Twitter"
	PlatformUnknown   Platform = "Unknown"
)

// Platforms lists every known platform in resolution order
var Platforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTikTok,
	PlatformTinder,
	PlatformWhatsApp,
	PlatformFinn,
	PlatformLinkedIn,
	PlatformTwitter,
}

func (p Platform) String() string {
	if p == "" {
		return string(PlatformUnknown)
	}
	return string(p)
}

// IsKnown reports whether p is one of the recognized platforms
func (p Platform) IsKnown() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform maps a wire name back to a Platform (case-insensitive).
// Unrecognized names resolve to PlatformUnknown.
func ParsePlatform(name string) Platform {
	name = strings.TrimSpace(name)
	for _, known := range Platforms {
		if strings.EqualFold(name, string(known)) {
			return known
		}
	}
	return PlatformUnknown
}
