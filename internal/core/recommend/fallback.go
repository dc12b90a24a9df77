package recommend

import (
	"math/rand"
)

// fallback 的可變欄位選項，每個欄位獨立均勻抽樣
var (
	fallbackAgeOptions = []string{"4-5 years", "5-6 years", "4-6 years"}
	fallbackEmotions   = []string{"Curious/Alert", "Happy/Playful", "Calm/Focused"}
	fallbackEnergies   = []string{"Low", "Medium", "High"}
	fallbackDurations  = []string{"10-15 minutes", "15-20 minutes", "20-25 minutes"}
)

// GenerateFallback 產生結構完整、隨機但合理的安全推薦內容。
// LLM 路徑失敗時呼叫端用它保證回應永遠是完整 schema；
// 純記憶體建構，不會失敗。
func GenerateFallback() *StructuredAnalysis {
	return &StructuredAnalysis{
		ChildAnalysis: ChildAnalysis{
			AgeEstimate:        pick(fallbackAgeOptions),
			PrimaryEmotion:     pick(fallbackEmotions),
			EnergyLevel:        pick(fallbackEnergies),
			DevelopmentalStage: "Preschool",
			MoodIndicators:     "Engaged and ready for learning activities",
		},
		ContentStrategy: ContentStrategy{
			EmotionalNeed:       "Educational and entertaining content",
			LearningOpportunity: "Interactive learning and creative expression",
			EnergyMatch:         "Moderate activity level content",
			AttentionSpan:       "Short to medium format (10-15 minutes)",
		},
		YouTubeKidsQueries: []string{
			"learning songs children safe",
			"kids crafts activities simple",
			"animated stories children educational",
			"counting colors shapes kids",
		},
		GoogleSafeQueries: []string{
			"kid-friendly educational content 4-6 years",
			"safe preschool learning activities",
			"age-appropriate children videos",
			"educational games kids supervised",
			"family-friendly kids entertainment",
		},
		QueryRanking: QueryRanking{
			BestMatch: "educational videos preschool kids",
			Reason:    "Balanced educational content for curious preschooler",
			RankedQueries: []RankedQuery{
				{Query: "educational videos preschool kids", Score: 90, Reasoning: "Perfect balance of education and engagement"},
				{Query: "learning songs children safe", Score: 85, Reasoning: "Engaging, educational via music"},
				{Query: "counting colors shapes kids", Score: 80, Reasoning: "Core learning for preschoolers"},
				{Query: "kids crafts activities simple", Score: 75, Reasoning: "Creative and fun"},
				{Query: "animated stories children educational", Score: 70, Reasoning: "Good for attention span"},
			},
		},
		ParentalGuidance: ParentalGuidance{
			SuggestedDuration:      pick(fallbackDurations),
			SupervisionLevel:       "Guided supervision",
			CoViewingOpportunities: "Engage with content together",
			DiscussionPoints:       "Discuss learning topics or favorite parts",
			FollowUpActivities:     "Practice numbers, colors, and crafts",
		},
		DevelopmentalBenefits: DevelopmentalBenefits{
			EmotionalDevelopment: "Supports emotional growth and empathy",
			CognitiveSkills:      "Improves attention and comprehension",
			SocialSkills:         "Encourages communication and cooperation",
			CreativeExpression:   "Boosts imagination and artistic sense",
		},
		SafetyAssurance: []string{
			"Age-appropriate content only",
			"No inappropriate themes or language",
			"Educational value included",
			"Positive role models featured",
			"Parent supervision recommended",
			"Safe platform recommendations",
		},
	}
}

func pick(options []string) string {
	return options[rand.Intn(len(options))]
}
