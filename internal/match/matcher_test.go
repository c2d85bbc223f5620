package match

import (
	"context"
	"testing"
)

const resumeText = `
Jane Doe
Data Engineer skilled in Python, SQL, and ETL pipelines
2019 - 2021 Data Engineer at XYZ Tech
`

func TestMatchScoresOverlap(t *testing.T) {
	res, err := KeywordMatcher{}.Match(context.Background(), resumeText, "Looking for a Python Data Engineer with SQL experience")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.OverallScore <= 0 || res.OverallScore > 100 {
		t.Fatalf("expected score in (0,100], got %d", res.OverallScore)
	}
	if res.Recommendation == "" {
		t.Fatalf("expected a recommendation label")
	}
	if res.Confidence <= 0 || res.Confidence > 0.95 {
		t.Fatalf("expected confidence in (0,0.95], got %f", res.Confidence)
	}
	found := false
	for _, kw := range res.StrengthAreas {
		if kw == "python" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected python among strength areas, got %v", res.StrengthAreas)
	}
}

func TestMatchDeterministic(t *testing.T) {
	job := "Python Data Engineer with SQL"
	a, err := KeywordMatcher{}.Match(context.Background(), resumeText, job)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	b, err := KeywordMatcher{}.Match(context.Background(), resumeText, job)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if a.OverallScore != b.OverallScore || a.Recommendation != b.Recommendation {
		t.Fatalf("expected identical results, got %+v vs %+v", a, b)
	}
	if len(a.StrengthAreas) != len(b.StrengthAreas) {
		t.Fatalf("expected identical strength areas")
	}
}

func TestMatchNoOverlap(t *testing.T) {
	res, err := KeywordMatcher{}.Match(context.Background(), "Accountant, bookkeeping, payroll", "Rust kernel developer wanted")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.OverallScore != 0 {
		t.Fatalf("expected score 0, got %d", res.OverallScore)
	}
	if res.Recommendation != RecommendationWeak {
		t.Fatalf("expected weak_match, got %s", res.Recommendation)
	}
}

func TestMatchEmptyJobDescription(t *testing.T) {
	res, err := KeywordMatcher{}.Match(context.Background(), resumeText, "")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.OverallScore != 0 {
		t.Fatalf("expected score 0 for empty job description, got %d", res.OverallScore)
	}
}

func TestRecommendationBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, RecommendationStrong},
		{75, RecommendationStrong},
		{74, RecommendationGood},
		{50, RecommendationGood},
		{49, RecommendationFair},
		{25, RecommendationFair},
		{24, RecommendationWeak},
		{0, RecommendationWeak},
	}
	for _, tc := range cases {
		if got := recommendationFor(tc.score); got != tc.want {
			t.Fatalf("recommendationFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
