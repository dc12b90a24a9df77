package emotion

import "sync"

// DefaultSentiment 進程啟動時的初始情緒
const DefaultSentiment = LabelHappy

// State 最近一次成功分類的主導情緒。
// 併發請求下採 last-writer-wins：寫入順序不保證對應請求到達順序。
// 分類失敗不會覆寫既有值。
type State struct {
	mu       sync.RWMutex
	dominant string
}

// NewState 創建情緒狀態，初始值為 DefaultSentiment
func NewState() *State {
	return &State{dominant: DefaultSentiment}
}

// Set 覆寫最近的主導情緒
func (s *State) Set(label string) {
	s.mu.Lock()
	s.dominant = label
	s.mu.Unlock()
}

// Get 讀取最近的主導情緒
func (s *State) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dominant
}
