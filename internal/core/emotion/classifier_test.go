package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"kids-content-api/internal/core/vision"
)

type stubAnalyzer struct {
	raw json.RawMessage
	err error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *vision.PixelBuffer) (json.RawMessage, error) {
	return s.raw, s.err
}

func testImage() *vision.PixelBuffer {
	return &vision.PixelBuffer{Width: 1, Height: 1, Pix: []uint8{0, 0, 0}}
}

func TestClassifySingleObject(t *testing.T) {
	raw := json.RawMessage(`{"emotion": {"happy": 80.5, "sad": 10.2, "neutral": 9.3}, "dominant_emotion": "ignored"}`)
	state := NewState()
	svc := NewService(&stubAnalyzer{raw: raw}, state)

	batch := svc.Classify(context.Background(), testImage())

	if len(batch) != 1 {
		t.Fatalf("batch length = %d, want 1", len(batch))
	}
	// dominant 一律由分數重新推導，不信任上游欄位
	if batch[0].DominantEmotion != LabelHappy {
		t.Errorf("dominant = %q, want %q", batch[0].DominantEmotion, LabelHappy)
	}
	if state.Get() != LabelHappy {
		t.Errorf("state = %q, want %q", state.Get(), LabelHappy)
	}
}

func TestClassifyList(t *testing.T) {
	raw := json.RawMessage(`[
		{"emotion": {"sad": 90, "happy": 10}},
		{"emotion": {"angry": 55, "fear": 45}}
	]`)
	state := NewState()
	svc := NewService(&stubAnalyzer{raw: raw}, state)

	batch := svc.Classify(context.Background(), testImage())

	if len(batch) != 2 {
		t.Fatalf("batch length = %d, want 2", len(batch))
	}
	if batch[0].DominantEmotion != LabelSad || batch[1].DominantEmotion != LabelAngry {
		t.Errorf("dominants = %q, %q", batch[0].DominantEmotion, batch[1].DominantEmotion)
	}
	// 狀態只跟第一張臉
	if state.Get() != LabelSad {
		t.Errorf("state = %q, want %q", state.Get(), LabelSad)
	}
}

func TestClassifyResultsWrapper(t *testing.T) {
	raw := json.RawMessage(`{"results": [{"emotion": {"surprise": 70, "neutral": 30}}]}`)
	svc := NewService(&stubAnalyzer{raw: raw}, NewState())

	batch := svc.Classify(context.Background(), testImage())

	if len(batch) != 1 {
		t.Fatalf("batch length = %d, want 1", len(batch))
	}
	if batch[0].DominantEmotion != LabelSurprise {
		t.Errorf("dominant = %q, want %q", batch[0].DominantEmotion, LabelSurprise)
	}
}

func TestClassifyAnalyzerFailure(t *testing.T) {
	state := NewState()
	state.Set(LabelSad)
	svc := NewService(&stubAnalyzer{err: errors.New("connection refused")}, state)

	batch := svc.Classify(context.Background(), testImage())

	if len(batch) != 1 {
		t.Fatalf("batch length = %d, want 1", len(batch))
	}
	if batch[0].DominantEmotion != LabelNeutral {
		t.Errorf("dominant = %q, want %q", batch[0].DominantEmotion, LabelNeutral)
	}
	// 失敗不覆寫既有狀態
	if state.Get() != LabelSad {
		t.Errorf("state = %q, want %q (unchanged)", state.Get(), LabelSad)
	}
}

func TestClassifyMalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"empty list", `[]`},
		{"scalar", `42`},
		{"missing scores", `{"dominant_emotion": "happy"}`},
		{"non numeric score", `{"emotion": {"happy": "high"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := NewState()
			svc := NewService(&stubAnalyzer{raw: json.RawMessage(tc.raw)}, state)
			batch := svc.Classify(context.Background(), testImage())
			if batch[0].DominantEmotion != LabelNeutral {
				t.Errorf("dominant = %q, want neutral", batch[0].DominantEmotion)
			}
			if state.Get() != DefaultSentiment {
				t.Errorf("state changed on failure: %q", state.Get())
			}
		})
	}
}

func TestDominantOfTieBreak(t *testing.T) {
	scores := map[string]float64{"sad": 50, "angry": 50}
	// 平手取字典序較小者
	if got := dominantOf(scores); got != "angry" {
		t.Errorf("dominantOf = %q, want angry", got)
	}
}

func TestStateDefault(t *testing.T) {
	state := NewState()
	if state.Get() != LabelHappy {
		t.Errorf("initial state = %q, want %q", state.Get(), LabelHappy)
	}
	state.Set(LabelFear)
	if state.Get() != LabelFear {
		t.Errorf("state after Set = %q, want %q", state.Get(), LabelFear)
	}
}
