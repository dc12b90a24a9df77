package common

import (
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
		{"fence only", "```json\n```", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.in); got != tc.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeNumbers(t *testing.T) {
	var decoded interface{}
	if err := ParseJSON(`{"int": 42, "float": 3.5, "exp": 1e3, "nested": {"score": 90}, "list": [1, 2.5]}`, &decoded); err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	normalized := NormalizeNumbers(decoded).(map[string]interface{})

	if v, ok := normalized["int"].(int64); !ok || v != 42 {
		t.Errorf("int = %v (%T), want int64 42", normalized["int"], normalized["int"])
	}
	if v, ok := normalized["float"].(float64); !ok || v != 3.5 {
		t.Errorf("float = %v (%T), want float64 3.5", normalized["float"], normalized["float"])
	}
	// 指數表示法視為浮點數
	if _, ok := normalized["exp"].(float64); !ok {
		t.Errorf("exp = %T, want float64", normalized["exp"])
	}
	nested := normalized["nested"].(map[string]interface{})
	if v, ok := nested["score"].(int64); !ok || v != 90 {
		t.Errorf("nested score = %v (%T), want int64 90", nested["score"], nested["score"])
	}
	list := normalized["list"].([]interface{})
	if _, ok := list[0].(int64); !ok {
		t.Errorf("list[0] = %T, want int64", list[0])
	}
	if _, ok := list[1].(float64); !ok {
		t.Errorf("list[1] = %T, want float64", list[1])
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v interface{}
	if err := ParseJSON(`{"a": 1} garbage`, &v); err == nil {
		t.Error("expected error for trailing data")
	}
}
