package recommend

import (
	"fmt"
	"strings"

	"kids-content-api/internal/pkg/common"
)

// ParseError 表示 LLM 回應不符合 endpoint 契約，呼叫端應視為 LLM 失敗並走 fallback
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse completion: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse completion: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// structuredRequiredKeys 結構化回應的必要頂層鍵；其餘鍵為 best-effort
var structuredRequiredKeys = []string{"childAnalysis", "contentStrategy", "queryRanking"}

// Parse 將 LLM 補全文字解析為結構化結果
func Parse(kind EndpointKind, completion string) (*ParsedResult, error) {
	switch kind {
	case KindURLs, KindTitles:
		items, err := parseLines(completion)
		if err != nil {
			return nil, err
		}
		return &ParsedResult{Items: items}, nil
	case KindStructured:
		obj, err := parseStructured(completion)
		if err != nil {
			return nil, err
		}
		return &ParsedResult{Structured: obj}, nil
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unknown endpoint kind %q", kind)}
	}
}

// parseLines 以換行切割、去除空白、丟棄空行；結果為空即為解析失敗
func parseLines(completion string) ([]string, error) {
	lines := strings.Split(completion, "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return nil, &ParseError{Reason: "completion contained no items"}
	}
	return items, nil
}

// parseStructured 去掉圍欄後解析為 JSON 物件並驗證必要鍵
func parseStructured(completion string) (map[string]interface{}, error) {
	cleaned := common.StripCodeFence(completion)
	if cleaned == "" {
		return nil, &ParseError{Reason: "empty completion"}
	}

	var decoded map[string]interface{}
	if err := common.ParseJSON(cleaned, &decoded); err != nil {
		return nil, &ParseError{Reason: "completion is not valid JSON", Err: err}
	}

	for _, key := range structuredRequiredKeys {
		if _, ok := decoded[key]; !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("missing required key %q", key)}
		}
	}

	normalized, _ := common.NormalizeNumbers(decoded).(map[string]interface{})
	return normalized, nil
}
