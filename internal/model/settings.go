package model

// Persisted settings keys
const (
	KeyAutoAnalyze       = "autoAnalyze"
	KeyShowNotifications = "showNotifications"
	KeyExtensionEnabled  = "extensionEnabled"
)

// ExtensionSettings are the user-tunable switches shared by every context
type ExtensionSettings struct {
	AutoAnalyze       bool `json:"autoAnalyze" yaml:"autoAnalyze"`
	ShowNotifications bool `json:"showNotifications" yaml:"showNotifications"`
	ExtensionEnabled  bool `json:"extensionEnabled" yaml:"extensionEnabled"`
}

// DefaultSettings returns the values written at install time
func DefaultSettings() ExtensionSettings {
	return ExtensionSettings{
		AutoAnalyze:       true,
		ShowNotifications: true,
		ExtensionEnabled:  true,
	}
}

// AsMap flattens settings into store key/value pairs
func (s ExtensionSettings) AsMap() map[string]any {
	return map[string]any{
		KeyAutoAnalyze:       s.AutoAnalyze,
		KeyShowNotifications: s.ShowNotifications,
		KeyExtensionEnabled:  s.ExtensionEnabled,
	}
}

// WidgetState is the presentation state machine's current phase
type WidgetState int

const (
	StateIdle WidgetState = iota
	StateDetecting
	StateLoading
	StateResult
	StateChat
	StateError
)

func (s WidgetState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateChat:
		return "chat"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
