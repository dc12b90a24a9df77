package recommend

import (
	"testing"
)

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func TestGenerateFallbackComplete(t *testing.T) {
	// 隨機欄位多抽幾次，確保每種組合都是完整 schema
	for i := 0; i < 200; i++ {
		fb := GenerateFallback()

		if fb.ChildAnalysis.AgeEstimate == "" ||
			fb.ChildAnalysis.PrimaryEmotion == "" ||
			fb.ChildAnalysis.EnergyLevel == "" ||
			fb.ChildAnalysis.DevelopmentalStage == "" ||
			fb.ChildAnalysis.MoodIndicators == "" {
			t.Fatal("childAnalysis has empty field")
		}
		if fb.ContentStrategy.EmotionalNeed == "" || fb.ContentStrategy.AttentionSpan == "" {
			t.Fatal("contentStrategy has empty field")
		}
		if len(fb.YouTubeKidsQueries) == 0 || len(fb.GoogleSafeQueries) == 0 {
			t.Fatal("query lists must not be empty")
		}
		if fb.QueryRanking.BestMatch == "" || len(fb.QueryRanking.RankedQueries) != 5 {
			t.Fatalf("queryRanking incomplete: %d ranked queries", len(fb.QueryRanking.RankedQueries))
		}
		if fb.ParentalGuidance.SuggestedDuration == "" || fb.ParentalGuidance.SupervisionLevel == "" {
			t.Fatal("parentalGuidance has empty field")
		}
		if fb.DevelopmentalBenefits.EmotionalDevelopment == "" {
			t.Fatal("developmentalBenefits has empty field")
		}
		if len(fb.SafetyAssurance) == 0 {
			t.Fatal("safetyAssurance must not be empty")
		}
	}
}

func TestGenerateFallbackRankingOrdered(t *testing.T) {
	fb := GenerateFallback()
	queries := fb.QueryRanking.RankedQueries
	for i := 1; i < len(queries); i++ {
		if queries[i].Score > queries[i-1].Score {
			t.Errorf("ranked queries not descending: %d after %d", queries[i].Score, queries[i-1].Score)
		}
	}
	if fb.QueryRanking.BestMatch != queries[0].Query {
		t.Errorf("bestMatch %q != top ranked query %q", fb.QueryRanking.BestMatch, queries[0].Query)
	}
}

func TestGenerateFallbackOptionsBounded(t *testing.T) {
	for i := 0; i < 50; i++ {
		fb := GenerateFallback()
		if !contains(fallbackAgeOptions, fb.ChildAnalysis.AgeEstimate) {
			t.Errorf("unexpected age estimate %q", fb.ChildAnalysis.AgeEstimate)
		}
		if !contains(fallbackEmotions, fb.ChildAnalysis.PrimaryEmotion) {
			t.Errorf("unexpected emotion %q", fb.ChildAnalysis.PrimaryEmotion)
		}
		if !contains(fallbackEnergies, fb.ChildAnalysis.EnergyLevel) {
			t.Errorf("unexpected energy %q", fb.ChildAnalysis.EnergyLevel)
		}
		if !contains(fallbackDurations, fb.ParentalGuidance.SuggestedDuration) {
			t.Errorf("unexpected duration %q", fb.ParentalGuidance.SuggestedDuration)
		}
	}
}
