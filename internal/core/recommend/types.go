package recommend

// EndpointKind 標示路由使用的 prompt / 回應契約
type EndpointKind string

const (
	// KindURLs 要求 10 個影片 URL（/api/emotion-v2）
	KindURLs EndpointKind = "urls"
	// KindTitles 要求 1 個影片標題（/api/sentiment）
	KindTitles EndpointKind = "titles"
	// KindStructured 要求完整 JSON 分析（/api/emotion）
	KindStructured EndpointKind = "structured"
)

// Prompt 送往 LLM 的請求：固定的 system 指令加上序列化後的情緒數據
type Prompt struct {
	System string
	User   string
}

// ParsedResult LLM 回應解析後的結果，依 EndpointKind 擇一填入
type ParsedResult struct {
	Items      []string               // KindURLs / KindTitles：非空的行列表
	Structured map[string]interface{} // KindStructured：通過必要鍵檢查的物件
}

// ChildAnalysis 兒童狀態分析
type ChildAnalysis struct {
	AgeEstimate        string `json:"ageEstimate"`
	PrimaryEmotion     string `json:"primaryEmotion"`
	EnergyLevel        string `json:"energyLevel"`
	DevelopmentalStage string `json:"developmentalStage"`
	MoodIndicators     string `json:"moodIndicators"`
}

// ContentStrategy 內容策略
type ContentStrategy struct {
	EmotionalNeed       string `json:"emotionalNeed"`
	LearningOpportunity string `json:"learningOpportunity"`
	EnergyMatch         string `json:"energyMatch"`
	AttentionSpan       string `json:"attentionSpan"`
}

// RankedQuery 搜尋關鍵字評分
type RankedQuery struct {
	Query     string `json:"query"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// QueryRanking 關鍵字排名
type QueryRanking struct {
	BestMatch     string        `json:"bestMatch"`
	Reason        string        `json:"reason"`
	RankedQueries []RankedQuery `json:"rankedQueries"`
}

// ParentalGuidance 家長指引
type ParentalGuidance struct {
	SuggestedDuration      string `json:"suggestedDuration"`
	SupervisionLevel       string `json:"supervisionLevel"`
	CoViewingOpportunities string `json:"coViewingOpportunities"`
	DiscussionPoints       string `json:"discussionPoints"`
	FollowUpActivities     string `json:"followUpActivities"`
}

// DevelopmentalBenefits 發展效益
type DevelopmentalBenefits struct {
	EmotionalDevelopment string `json:"emotionalDevelopment"`
	CognitiveSkills      string `json:"cognitiveSkills"`
	SocialSkills         string `json:"socialSkills"`
	CreativeExpression   string `json:"creativeExpression"`
}

// StructuredAnalysis 完整的推薦分析，回傳給呼叫端的 schema。
// 所有欄位都必須是非空值；fallback 產生器保證填滿每一欄。
type StructuredAnalysis struct {
	ChildAnalysis         ChildAnalysis         `json:"childAnalysis"`
	ContentStrategy       ContentStrategy       `json:"contentStrategy"`
	YouTubeKidsQueries    []string              `json:"youtubeKidsQueries"`
	GoogleSafeQueries     []string              `json:"googleSafeQueries"`
	QueryRanking          QueryRanking          `json:"queryRanking"`
	ParentalGuidance      ParentalGuidance      `json:"parentalGuidance"`
	DevelopmentalBenefits DevelopmentalBenefits `json:"developmentalBenefits"`
	SafetyAssurance       []string              `json:"safetyAssurance"`
}
