package analysis

import (
	"testing"

	"github.com/ppiankov/policywatch/internal/model"
)

func TestFallback_EveryKnownPlatformHasEntry(t *testing.T) {
	for _, p := range model.Platforms {
		got := Fallback(p)
		if got.HarmfulPoints == genericFallback.HarmfulPoints {
			t.Errorf("%s falls through to the generic entry", p)
		}
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("%s score %d out of range", p, got.Score)
		}
		if got.Source != model.SourceFallback {
			t.Errorf("%s source = %s", p, got.Source)
		}
		if got.Recommendation == "" {
			t.Errorf("%s has no recommendation", p)
		}
	}
}

func TestFallback_GenericForUnknown(t *testing.T) {
	for _, p := range []model.Platform{model.PlatformUnknown, "", "Myspace"} {
		got := Fallback(p)
		if got.Score != 50 {
			t.Errorf("Fallback(%q).Score = %d, want 50", p, got.Score)
		}
	}
}

func TestFallback_ReturnsCopy(t *testing.T) {
	got := Fallback(model.PlatformTinder)
	got.Score = 99
	got.HarmfulPoints = "mutated"

	if again := Fallback(model.PlatformTinder); again.Score == 99 || again.HarmfulPoints == "mutated" {
		t.Error("Fallback table was mutated through a returned value")
	}
}
