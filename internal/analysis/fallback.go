package analysis

import "github.com/ppiankov/policywatch/internal/model"

// genericFallback is used for Unknown and for any platform absent from the table
var genericFallback = model.AnalysisResult{
	Score:          50,
	HarmfulPoints:  "This service likely collects personal data including contact information, usage patterns, and device information. Without access to its privacy policy, the full extent of data collection is unknown.",
	WorstData:      "Contact information, usage patterns, and potentially location data, though specifics are unavailable without policy access.",
	Recommendation: "Review privacy settings and limit data sharing where possible. Look for privacy information in the app or the website footer.",
}

// fallbackTable holds canned results for platforms the backend usually covers
var fallbackTable = map[model.Platform]model.AnalysisResult{
	model.PlatformTinder: {
		Score:          45,
		HarmfulPoints:  "Tinder collects your exact location, biometric data from photos, and tracks your swiping patterns to create detailed behavioral profiles. They share this intimate data with Match Group's 45+ companies and keep it indefinitely even after you delete your account.",
		WorstData:      "Your precise location, facial recognition data, and detailed records of who you're attracted to, creating a comprehensive profile of your romantic preferences and physical movements.",
		Recommendation: "Turn off location services, avoid uploading clear face photos, and regularly delete your account if you're not actively using it.",
	},
	model.PlatformFacebook: {
		Score:          60,
		HarmfulPoints:  "Facebook tracks your activity across the entire internet, builds shadow profiles of non-users through your contacts, and uses psychological manipulation techniques to increase engagement. They collect data even when you're not using Facebook.",
		WorstData:      "Complete browsing history across all websites, real-time location tracking, and psychological profiling data used to influence your behavior and political views.",
		Recommendation: "Use Facebook in a separate browser, turn off all location tracking, and regularly review what data they have on you.",
	},
	model.PlatformInstagram: {
		Score:          35,
		HarmfulPoints:  "Instagram analyzes your photos using AI to detect your emotions, relationships, and lifestyle patterns. They track how long you look at each post to manipulate your feed and keep you addicted to the platform.",
		WorstData:      "AI analysis of your photos revealing personal relationships, mental health patterns, and detailed behavioral data used for algorithmic manipulation.",
		Recommendation: "Limit photo uploads with people in them, turn off activity tracking, and use time limits to avoid algorithmic manipulation.",
	},
	model.PlatformTikTok: {
		Score:          60,
		HarmfulPoints:  "TikTok collects biometric data including face and voice prints, accesses your clipboard without permission, and may share data with the Chinese government. They track your behavior even when the app is closed.",
		WorstData:      "Biometric identifiers (face, voice, keystroke patterns), clipboard contents, and detailed behavioral data that could be accessed by foreign governments.",
		Recommendation: "Avoid using TikTok for sensitive communications, turn off microphone access, and consider the geopolitical risks of your data being in China.",
	},
	model.PlatformWhatsApp: {
		Score:          60,
		HarmfulPoints:  "While messages are encrypted, WhatsApp collects extensive metadata about who you talk to, when, and for how long. This metadata is shared with Facebook for advertising and can reveal your social network and behavior patterns.",
		WorstData:      "Complete social network mapping, communication patterns, and location data that reveals your daily routines and relationships.",
		Recommendation: "Use Signal for sensitive conversations, turn off read receipts and last seen, and limit location sharing.",
	},
	model.PlatformFinn: {
		Score:          70,
		HarmfulPoints:  "Finn.no tracks your search history and browsing patterns to build detailed profiles of your interests, income level, and life situation. This data is shared with advertising partners and could be used for price discrimination.",
		WorstData:      "Detailed financial profiling based on what you search for and buy, revealing your economic situation and personal needs.",
		Recommendation: "Use private browsing mode, avoid searching for sensitive items when not serious about buying, and regularly clear your search history.",
	},
	model.PlatformLinkedIn: {
		Score:          55,
		HarmfulPoints:  "LinkedIn builds a detailed professional profile from your work history, connections, and activity, and uses it for recruiter search and targeted advertising. Your profile and contacts are shared with Microsoft services and advertising partners.",
		WorstData:      "Your employment history, professional network, and salary-related signals that reveal your career situation to recruiters and advertisers.",
		Recommendation: "Restrict profile visibility, turn off data sharing with third-party applications, and opt out of advertising personalization.",
	},
	model.PlatformTwitter: {
		Score:          45,
		HarmfulPoints:  "Twitter collects your posts, interactions, contacts, and inferred interests, and shares data with advertising partners. Location and device information are used to profile you across services.",
		WorstData:      "Inferred interests and political leanings derived from what you read and engage with, combined with location and device identifiers.",
		Recommendation: "Turn off personalized ads and location tagging, disconnect contact syncing, and review the inferred interests in your account data.",
	},
}

// Fallback returns the canned result for platform, or the generic entry.
// It never fails and the returned value is a copy.
func Fallback(platform model.Platform) model.AnalysisResult {
	result, ok := fallbackTable[platform]
	if !ok {
		result = genericFallback
	}
	result.Source = model.SourceFallback
	return result
}
