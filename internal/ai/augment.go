package ai

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"fitcheck/internal/errors"
	"fitcheck/internal/score"
	"fitcheck/internal/types"
)

const (
	embedExcerptLen  = 1000
	resumeExcerptLen = 800

	maxSkillLabels    = 10
	maxCandidateTerms = 30
	classifiedTerms   = 20

	presenceThreshold   = 0.5
	categoryFloor       = 0.35
	heuristicConfidence = 0.9
)

const reasonDisabled = "augmentation disabled"

var keywordCategoryLabels = []string{"technical skill", "soft skill or ability", "general keyword"}

var coverageLabels = []string{types.CoverageFull, types.CoveragePartial, types.CoverageNone}

// Augmenter runs the four semantic sub-capabilities. Each one degrades on
// its own: a failed call produces a heuristic fallback or an absent
// signal, never an error.
type Augmenter struct {
	provider  InferenceProvider
	segmenter RequirementSegmenter
	logger    *errors.Logger
}

// NewAugmenter wires an augmenter. A nil provider disables every
// capability.
func NewAugmenter(provider InferenceProvider, segmenter RequirementSegmenter, logger *errors.Logger) *Augmenter {
	if segmenter == nil {
		segmenter = &LineSegmenter{}
	}
	return &Augmenter{provider: provider, segmenter: segmenter, logger: logger}
}

// Enabled reports whether the augmenter has a provider to call.
func (a *Augmenter) Enabled() bool {
	return a != nil && a.provider != nil
}

// Similarity embeds both documents and reports their cosine similarity
// scaled to [0,100].
func (a *Augmenter) Similarity(ctx context.Context, resumeText, jobText string) types.SimilaritySignal {
	if !a.Enabled() {
		return types.SimilaritySignal{DegradedReason: reasonDisabled}
	}

	resumeVec, err := a.provider.Embed(ctx, excerpt(resumeText, embedExcerptLen))
	if err != nil {
		return a.degradedSimilarity("resume embedding failed", err)
	}
	jobVec, err := a.provider.Embed(ctx, excerpt(jobText, embedExcerptLen))
	if err != nil {
		return a.degradedSimilarity("job embedding failed", err)
	}

	cos, ok := cosine(resumeVec, jobVec)
	if !ok {
		return types.SimilaritySignal{DegradedReason: "embedding vectors not comparable"}
	}

	value := score.Clamp(int(math.Round(cos * 100)))
	return types.SimilaritySignal{Used: true, Score: &value}
}

func (a *Augmenter) degradedSimilarity(reason string, err error) types.SimilaritySignal {
	a.logger.LogError(err, "similarity signal degraded", "reason", reason)
	return types.SimilaritySignal{DegradedReason: reason}
}

// SkillConfidences refines the heuristic skill match with classification
// scores. On any failure the heuristic match survives unchanged with
// default confidence.
func (a *Augmenter) SkillConfidences(ctx context.Context, resumeText string, matched, missing []string) ([]types.SkillMatch, string) {
	heuristic := func() ([]types.SkillMatch, string) {
		out := make([]types.SkillMatch, 0, len(matched))
		for _, skill := range matched {
			out = append(out, types.SkillMatch{Skill: skill, Present: true, Confidence: heuristicConfidence})
		}
		return out, types.SkillSourceHeuristic
	}

	if !a.Enabled() {
		return heuristic()
	}

	labels := append(append([]string{}, matched...), missing...)
	if len(labels) > maxSkillLabels {
		labels = labels[:maxSkillLabels]
	}
	if len(labels) == 0 {
		return heuristic()
	}

	scores, err := a.provider.Classify(ctx, excerpt(resumeText, embedExcerptLen), labels)
	if err != nil {
		a.logger.LogError(err, "skill confidence degraded to heuristic")
		return heuristic()
	}

	byLabel := make(map[string]float64, len(scores))
	for _, ls := range scores {
		byLabel[strings.ToLower(ls.Label)] = ls.Score
	}

	var out []types.SkillMatch
	for _, skill := range matched {
		confidence := heuristicConfidence
		if c, ok := byLabel[strings.ToLower(skill)]; ok {
			confidence = c
		}
		out = append(out, types.SkillMatch{Skill: skill, Present: true, Confidence: confidence})
	}
	for _, skill := range missing {
		if c, ok := byLabel[strings.ToLower(skill)]; ok && c > presenceThreshold {
			out = append(out, types.SkillMatch{Skill: skill, Present: true, Confidence: c})
		}
	}
	return out, types.SkillSourceExternal
}

// CategorizeKeywords sorts significant job terms into technical / ability
// / contextual buckets, split by resume presence. On failure the plain
// extractor keywords collapse into the contextual bucket.
func (a *Augmenter) CategorizeKeywords(ctx context.Context, jobText, resumeText string, fallbackMatched, fallbackMissing []string) *types.CategorizedKeywords {
	fallback := &types.CategorizedKeywords{
		Contextual: types.KeywordBucket{Matched: fallbackMatched, Missing: fallbackMissing},
	}

	if !a.Enabled() {
		return fallback
	}

	terms := candidateTerms(jobText)
	if len(terms) > classifiedTerms {
		terms = terms[:classifiedTerms]
	}
	if len(terms) == 0 {
		return fallback
	}

	lowerResume := strings.ToLower(resumeText)
	result := &types.CategorizedKeywords{}

	for _, term := range terms {
		scores, err := a.provider.Classify(ctx, term, keywordCategoryLabels)
		if err != nil {
			a.logger.LogError(err, "keyword categorization degraded", "term", term)
			return fallback
		}
		if len(scores) == 0 || scores[0].Score < categoryFloor {
			continue
		}

		var bucket *types.KeywordBucket
		switch scores[0].Label {
		case "technical skill":
			bucket = &result.Technical
		case "soft skill or ability":
			bucket = &result.Abilities
		default:
			bucket = &result.Contextual
		}

		if strings.Contains(lowerResume, term) {
			bucket.Matched = append(bucket.Matched, term)
		} else {
			bucket.Missing = append(bucket.Missing, term)
		}
	}
	return result
}

// CoverRequirements classifies each job requirement's coverage by the
// resume. A failed item degrades to not-covered with zero confidence;
// the rest proceed.
func (a *Augmenter) CoverRequirements(ctx context.Context, resumeText, jobText string) []types.RequirementCoverage {
	if !a.Enabled() {
		return nil
	}

	requirements := a.segmenter.Segment(jobText)
	if len(requirements) == 0 {
		return nil
	}

	snippet := excerpt(resumeText, resumeExcerptLen)
	out := make([]types.RequirementCoverage, 0, len(requirements))

	for _, req := range requirements {
		text := "Requirement: " + req + "\n\nCandidate resume:\n" + snippet

		scores, err := a.provider.Classify(ctx, text, coverageLabels)
		if err != nil || len(scores) == 0 {
			if err != nil {
				a.logger.LogError(err, "requirement coverage item degraded", "requirement", req)
			}
			out = append(out, types.RequirementCoverage{Requirement: req, Coverage: types.CoverageNone})
			continue
		}

		coverage := scores[0].Label
		if !isCoverageLabel(coverage) {
			coverage = types.CoverageNone
		}
		out = append(out, types.RequirementCoverage{
			Requirement: req,
			Coverage:    coverage,
			Confidence:  scores[0].Score,
		})
	}
	return out
}

func isCoverageLabel(label string) bool {
	for _, l := range coverageLabels {
		if label == l {
			return true
		}
	}
	return false
}

var termRe = regexp.MustCompile(`\b[a-z][a-z0-9+#.\-]*\b`)

// candidateTerms collects recurring or distinctive terms from a job
// description, most frequent first.
func candidateTerms(jobText string) []string {
	freq := make(map[string]int)
	var order []string

	for _, term := range termRe.FindAllString(strings.ToLower(jobText), -1) {
		if len(term) <= 3 {
			continue
		}
		if freq[term] == 0 {
			order = append(order, term)
		}
		freq[term]++
	}

	var kept []string
	for _, term := range order {
		if freq[term] >= 2 || len(term) > 5 {
			kept = append(kept, term)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return freq[kept[i]] > freq[kept[j]]
	})

	if len(kept) > maxCandidateTerms {
		kept = kept[:maxCandidateTerms]
	}
	return kept
}

// excerpt cuts text to at most limit bytes without splitting a rune.
func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// cosine returns the cosine similarity of two vectors, false when the
// vectors cannot be compared.
func cosine(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
