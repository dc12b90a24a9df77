package emotion

import (
	"context"
	"encoding/json"
	"fmt"

	"kids-content-api/internal/core/vision"
	"kids-content-api/internal/pkg/common"

	"go.uber.org/zap"
)

// FaceAnalyzer 外部人臉情緒分類器的黑箱契約。
// 回傳原始 JSON：單一結果物件或結果陣列都是合法輸出。
type FaceAnalyzer interface {
	Analyze(ctx context.Context, img *vision.PixelBuffer) (json.RawMessage, error)
}

// Service 情緒分類轉接層：呼叫外部分類器、正規化輸出、維護最近情緒狀態
type Service struct {
	analyzer FaceAnalyzer
	state    *State
}

// NewService 創建情緒分類服務
func NewService(analyzer FaceAnalyzer, state *State) *Service {
	return &Service{
		analyzer: analyzer,
		state:    state,
	}
}

// Classify 對像素緩衝區執行情緒分類，永不失敗。
// 任何內部錯誤都被吸收：記錄後以合成的 neutral 結果代替，
// 讓管線後段永遠有情緒數據可用。只有真正的成功會更新情緒狀態。
func (s *Service) Classify(ctx context.Context, img *vision.PixelBuffer) Batch {
	batch, err := s.classify(ctx, img)
	if err != nil {
		common.LogError("情緒分析失敗，改用 neutral 合成結果",
			zap.Error(err),
		)
		return Batch{NeutralRecord()}
	}

	s.state.Set(batch[0].DominantEmotion)

	common.LogInfo("情緒分析成功",
		zap.Int("faces_count", len(batch)),
		zap.String("dominant_emotion", batch[0].DominantEmotion),
	)
	return batch
}

func (s *Service) classify(ctx context.Context, img *vision.PixelBuffer) (Batch, error) {
	raw, err := s.analyzer.Analyze(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	return normalizeRaw(raw)
}

// normalizeRaw 將分類器的原始輸出收斂為非空的有序 Batch。
// 單一物件會被包成一元素列表；{"results": [...]} 包裝會被拆開；
// 所有數值經 NormalizeNumbers 轉為原生型別後再取出分數。
func normalizeRaw(raw json.RawMessage) (Batch, error) {
	var decoded interface{}
	if err := common.ParseJSONBytes(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid analyzer payload: %w", err)
	}
	decoded = common.NormalizeNumbers(decoded)

	var faces []interface{}
	switch v := decoded.(type) {
	case []interface{}:
		faces = v
	case map[string]interface{}:
		// deepface serve 會把列表包在 results 底下
		if wrapped, ok := v["results"].([]interface{}); ok {
			faces = wrapped
		} else {
			faces = []interface{}{v}
		}
	default:
		return nil, fmt.Errorf("unexpected analyzer payload type %T", decoded)
	}

	if len(faces) == 0 {
		return nil, fmt.Errorf("analyzer returned no faces")
	}

	batch := make(Batch, 0, len(faces))
	for i, face := range faces {
		obj, ok := face.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("face %d is not an object", i)
		}
		scores, err := extractScores(obj)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		batch = append(batch, Record{
			Scores:          scores,
			DominantEmotion: dominantOf(scores),
		})
	}
	return batch, nil
}

func extractScores(face map[string]interface{}) (map[string]float64, error) {
	rawScores, ok := face["emotion"].(map[string]interface{})
	if !ok || len(rawScores) == 0 {
		return nil, fmt.Errorf("missing emotion scores")
	}

	scores := make(map[string]float64, len(rawScores))
	for label, v := range rawScores {
		switch n := v.(type) {
		case float64:
			scores[label] = n
		case int64:
			scores[label] = float64(n)
		default:
			return nil, fmt.Errorf("score for %q is not numeric", label)
		}
	}
	return scores, nil
}
