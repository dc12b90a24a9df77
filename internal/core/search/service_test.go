package search

import (
	"context"
	"testing"

	"kids-content-api/internal/infrastructure/config"
)

func TestSelectQuery(t *testing.T) {
	if got := selectQuery([]string{"kids songs", "counting"}); got != "kids songs" {
		t.Errorf("selectQuery = %q, want first query", got)
	}
	if got := selectQuery([]string{"", "  ", "colors for kids"}); got != "colors for kids" {
		t.Errorf("selectQuery = %q, want first non-empty query", got)
	}
	// 全空時抽精選關鍵字
	got := selectQuery(nil)
	found := false
	for _, q := range fallbackQueries {
		if q == got {
			found = true
		}
	}
	if !found {
		t.Errorf("selectQuery(nil) = %q, not a curated query", got)
	}
}

func TestIsSafe(t *testing.T) {
	if isSafe("scary monster stories for kids") {
		t.Error("unsafe keyword not caught")
	}
	if !isSafe("learn colors with fun songs") {
		t.Error("safe text flagged as unsafe")
	}
}

func TestIsEducational(t *testing.T) {
	if !isEducational("abc learning video") {
		t.Error("educational keyword not recognized")
	}
	if !isEducational("fun time with sesame street") {
		t.Error("trusted channel not recognized")
	}
	if isEducational("random gaming stream") {
		t.Error("non-educational text passed filter")
	}
}

func TestDedupe(t *testing.T) {
	videos := []Video{
		{VideoID: "a"}, {VideoID: "b"}, {VideoID: "a"}, {VideoID: "c"}, {VideoID: "b"},
	}
	got := dedupe(videos)
	if len(got) != 3 {
		t.Fatalf("dedupe length = %d, want 3", len(got))
	}
	if got[0].VideoID != "a" || got[1].VideoID != "b" || got[2].VideoID != "c" {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestSearchWithoutAPIKeyReturnsCurated(t *testing.T) {
	svc := NewService(&config.Config{})

	result := svc.Search(context.Background(), []string{"kids songs"})

	if len(result.Videos) == 0 {
		t.Fatal("curated list must not be empty")
	}
	if result.Note != "Showing curated recommendations - YouTube API temporarily unavailable" {
		t.Errorf("unexpected note: %q", result.Note)
	}
	for _, v := range result.Videos {
		if v.SafetyRating != "Child-Safe" {
			t.Errorf("curated video %q not marked Child-Safe", v.Title)
		}
	}
}
