// Package match scores a resume against a job description. The keyword
// matcher is a deterministic baseline; an AI-backed implementation can
// replace it behind the same interface.
package match

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Recommendation labels by score band.
const (
	RecommendationStrong = "strong_match"
	RecommendationGood   = "good_match"
	RecommendationFair   = "fair_match"
	RecommendationWeak   = "weak_match"
)

// Result is one scoring outcome for a resume/job pair.
type Result struct {
	OverallScore   int
	Confidence     float64
	Recommendation string
	CategoryScores map[string]any
	StrengthAreas  []string
	GapAnalysis    map[string]any
	Explanation    map[string]any
}

// Matcher scores resume text against a job description.
type Matcher interface {
	Match(ctx context.Context, resumeText, jobDescription string) (Result, error)
}

// KeywordMatcher scores by keyword overlap between the job description and
// the resume text. Deterministic for identical inputs.
type KeywordMatcher struct{}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "our": {}, "the": {}, "to": {}, "we": {}, "with": {},
	"you": {}, "your": {}, "looking": {}, "seeking": {}, "experience": {},
	"experienced": {}, "skilled": {}, "strong": {}, "required": {},
	"requirements": {}, "must": {}, "have": {}, "plus": {}, "years": {},
}

var nonWord = regexp.MustCompile(`[^a-z0-9+/.]+`)

// Match computes keyword coverage of the job description by the resume.
func (KeywordMatcher) Match(ctx context.Context, resumeText, jobDescription string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	jobTokens := keywords(jobDescription)
	resumeTokens := tokens(resumeText)

	var matched, missing []string
	for _, kw := range jobTokens {
		if _, ok := resumeTokens[kw]; ok {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	coverage := 0.0
	if len(jobTokens) > 0 {
		coverage = float64(len(matched)) / float64(len(jobTokens))
	}
	score := int(math.Round(coverage * 100))

	result := Result{
		OverallScore:   score,
		Confidence:     round2(math.Min(0.95, 0.35+0.6*coverage)),
		Recommendation: recommendationFor(score),
		CategoryScores: map[string]any{
			"keyword_coverage": score,
		},
		StrengthAreas: matched,
		GapAnalysis: map[string]any{
			"missing_keywords": missing,
		},
		Explanation: map[string]any{
			"method":           "keyword_overlap",
			"matched_keywords": len(matched),
			"total_keywords":   len(jobTokens),
		},
	}
	return result, nil
}

func recommendationFor(score int) string {
	switch {
	case score >= 75:
		return RecommendationStrong
	case score >= 50:
		return RecommendationGood
	case score >= 25:
		return RecommendationFair
	default:
		return RecommendationWeak
	}
}

// keywords returns the sorted unique non-stopword tokens of a text.
func keywords(text string) []string {
	set := tokens(text)
	out := make([]string, 0, len(set))
	for tok := range set {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func tokens(text string) map[string]struct{} {
	normalized := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		if len(tok) < 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

var _ Matcher = KeywordMatcher{}
