// Package insights derives explanations from a finished analysis:
// strengths and weaknesses, prioritized recommendations, and the report
// views (readiness, priority actions, competitive position and friends).
// Everything here is a pure function of the analysis result.
package insights

import (
	"fmt"
	"strings"

	"fitcheck/internal/skills"
	"fitcheck/internal/types"
)

const (
	maxRecommendations = 8
	maxListedItems     = 5
)

type categoryScore struct {
	name  string
	score int
}

func orderedCategories(cs types.CategoryScores) []categoryScore {
	return []categoryScore{
		{"Skills", cs.Skills},
		{"Experience", cs.Experience},
		{"Keywords", cs.Keywords},
		{"Semantic", cs.Semantic},
		{"ATS", cs.ATS},
	}
}

// StrengthsAndWeaknesses lists categories scoring at least 80 as strengths
// and categories under 60 as weaknesses. When nothing stands out either
// way, a single generic weakness notes the optimization opportunity.
func StrengthsAndWeaknesses(cs types.CategoryScores) (strengths, weaknesses []string) {
	for _, c := range orderedCategories(cs) {
		switch {
		case c.score >= 80:
			strengths = append(strengths, fmt.Sprintf("Strong %s match (%d%%)", c.name, c.score))
		case c.score < 60:
			weaknesses = append(weaknesses, fmt.Sprintf("Weak %s match (%d%%)", c.name, c.score))
		}
	}
	if len(strengths) == 0 && len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "Opportunity for optimization across all categories")
	}
	return strengths, weaknesses
}

// Recommendations builds the actionable suggestion list from the category
// scores and the gap lists, capped at eight entries.
func Recommendations(cs types.CategoryScores, missingSkills, missingKeywords, atsRecommendations []string, hasExperienceClaim bool) []types.Recommendation {
	var recs []types.Recommendation

	if cs.Skills < 70 && len(missingSkills) > 0 {
		recs = append(recs, types.Recommendation{
			Category:    "Skills",
			Title:       "Add Missing Skills",
			Description: "Consider highlighting these skills if you have them: " + joinFirst(missingSkills, maxListedItems),
			Priority:    types.PriorityHigh,
		})
	}

	if cs.Keywords < 70 && len(missingKeywords) > 0 {
		recs = append(recs, types.Recommendation{
			Category:    "Keywords",
			Title:       "Incorporate Key Terms",
			Description: "Add relevant keywords: " + joinFirst(missingKeywords, maxListedItems),
			Priority:    types.PriorityHigh,
		})
	}

	if cs.Experience < 70 {
		rec := types.Recommendation{
			Category: "Experience",
			Priority: types.PriorityMedium,
		}
		if hasExperienceClaim {
			rec.Title = "Highlight Relevant Experience"
			rec.Description = "Emphasize accomplishments that match the seniority this role expects."
		} else {
			rec.Title = "Better Format Experience Section"
			rec.Description = "State your years of experience explicitly so it can be recognized."
		}
		recs = append(recs, rec)
	}

	if cs.ATS < 70 {
		for _, atsRec := range atsRecommendations {
			recs = append(recs, types.Recommendation{
				Category:    "ATS",
				Title:       "Improve ATS Compatibility",
				Description: atsRec,
				Priority:    types.PriorityHigh,
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, types.Recommendation{
			Category:    "General",
			Title:       "Fine-tune Your Resume",
			Description: "Your resume looks good! Consider minor adjustments based on specific job requirements.",
			Priority:    types.PriorityLow,
		})
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

// missingTechnical and missingAbilities split the missing skill list by
// vocabulary kind. Skills outside the vocabulary count as technical since
// job postings overwhelmingly list tools there.
func missingTechnical(missing []string) []string {
	var out []string
	for _, s := range missing {
		if !skills.IsSoft(s) {
			out = append(out, s)
		}
	}
	return out
}

func missingAbilities(missing []string) []string {
	var out []string
	for _, s := range missing {
		if skills.IsSoft(s) {
			out = append(out, s)
		}
	}
	return out
}

// fullCoverageRate is the share of requirements judged fully covered.
// Zero when no coverage data exists.
func fullCoverageRate(coverage []types.RequirementCoverage) float64 {
	if len(coverage) == 0 {
		return 0
	}
	full := 0
	for _, rc := range coverage {
		if rc.Coverage == types.CoverageFull {
			full++
		}
	}
	return float64(full) / float64(len(coverage))
}

func notCovered(coverage []types.RequirementCoverage) []types.RequirementCoverage {
	var out []types.RequirementCoverage
	for _, rc := range coverage {
		if rc.Coverage == types.CoverageNone {
			out = append(out, rc)
		}
	}
	return out
}
