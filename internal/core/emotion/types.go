package emotion

// 分類器輸出的情緒標籤詞彙表
const (
	LabelHappy    = "happy"
	LabelSad      = "sad"
	LabelAngry    = "angry"
	LabelSurprise = "surprise"
	LabelFear     = "fear"
	LabelDisgust  = "disgust"
	LabelNeutral  = "neutral"
)

// Record 單一人臉的情緒分析結果。
// DominantEmotion 由 Scores 推導，恆為 Scores 中分數最高的鍵；
// Scores 不會是空的（分類失敗時以 {neutral: 1} 代替）。
type Record struct {
	Scores          map[string]float64 `json:"emotion"`
	DominantEmotion string             `json:"dominant_emotion"`
}

// Batch 依偵測順序排列的人臉結果，長度恆 >= 1
type Batch []Record

// NeutralRecord 分類失敗時的合成結果
func NeutralRecord() Record {
	return Record{
		Scores:          map[string]float64{LabelNeutral: 1},
		DominantEmotion: LabelNeutral,
	}
}

// dominantOf 取分數最高的標籤；平手時取字典序較小者，確保結果穩定
func dominantOf(scores map[string]float64) string {
	var best string
	var bestScore float64
	for label, score := range scores {
		if best == "" || score > bestScore || (score == bestScore && label < best) {
			best = label
			bestScore = score
		}
	}
	return best
}
