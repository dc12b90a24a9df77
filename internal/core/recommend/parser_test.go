package recommend

import (
	"errors"
	"reflect"
	"testing"
)

const validStructured = `{
	"childAnalysis": {"ageEstimate": "4-6 years", "primaryEmotion": "Happy"},
	"contentStrategy": {"emotionalNeed": "fun"},
	"queryRanking": {"bestMatch": "kids songs", "rankedQueries": [{"query": "kids songs", "score": 90}]}
}`

func TestParseLines(t *testing.T) {
	cases := []struct {
		name       string
		completion string
		want       []string
	}{
		{"single line", "A title", []string{"A title"}},
		{"trims whitespace", "  A title  \n\n  ", []string{"A title"}},
		{"multiple lines", "url1\nurl2\nurl3", []string{"url1", "url2", "url3"}},
		{"drops blank lines", "url1\n\n\nurl2", []string{"url1", "url2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(KindTitles, tc.completion)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(got.Items, tc.want) {
				t.Errorf("items = %v, want %v", got.Items, tc.want)
			}
		})
	}
}

func TestParseLinesEmpty(t *testing.T) {
	for _, completion := range []string{"", "   \n\n  \n"} {
		_, err := Parse(KindURLs, completion)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Parse(%q) error = %v, want *ParseError", completion, err)
		}
	}
}

func TestParseStructured(t *testing.T) {
	got, err := Parse(KindStructured, validStructured)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, key := range []string{"childAnalysis", "contentStrategy", "queryRanking"} {
		if _, ok := got.Structured[key]; !ok {
			t.Errorf("missing key %q in result", key)
		}
	}
}

func TestParseStructuredFencedEqualsUnfenced(t *testing.T) {
	fenced := "```json\n" + validStructured + "\n```"

	plain, err := Parse(KindStructured, validStructured)
	if err != nil {
		t.Fatalf("Parse plain: %v", err)
	}
	stripped, err := Parse(KindStructured, fenced)
	if err != nil {
		t.Fatalf("Parse fenced: %v", err)
	}
	if !reflect.DeepEqual(plain.Structured, stripped.Structured) {
		t.Error("fenced and unfenced completions parsed differently")
	}
}

func TestParseStructuredNumbersNormalized(t *testing.T) {
	got, err := Parse(KindStructured, validStructured)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ranking := got.Structured["queryRanking"].(map[string]interface{})
	queries := ranking["rankedQueries"].([]interface{})
	score := queries[0].(map[string]interface{})["score"]
	// 整數不得變成 float64
	if _, ok := score.(int64); !ok {
		t.Errorf("score type = %T, want int64", score)
	}
}

func TestParseStructuredErrors(t *testing.T) {
	cases := []struct {
		name       string
		completion string
	}{
		{"empty", ""},
		{"fence only", "```json\n```"},
		{"not json", "sorry, I cannot help with that"},
		{"json array", `[1, 2, 3]`},
		{"missing childAnalysis", `{"contentStrategy": {}, "queryRanking": {}}`},
		{"missing queryRanking", `{"childAnalysis": {}, "contentStrategy": {}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(KindStructured, tc.completion)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error = %v, want *ParseError", err)
			}
		})
	}
}

func TestParseUnknownKind(t *testing.T) {
	_, err := Parse(EndpointKind("bogus"), "anything")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error = %v, want *ParseError", err)
	}
}
