package insights

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"fitcheck/internal/score"
	"fitcheck/internal/types"
)

// Report is the full insight view over one analysis result.
type Report struct {
	Readiness            Readiness            `json:"readiness"`
	PriorityActions      []PriorityAction     `json:"priorityActions"`
	MatchStrength        []MatchStrength      `json:"matchStrength"`
	ImprovementPotential ImprovementPotential `json:"improvementPotential"`
	Confidence           Confidence           `json:"confidence"`
	ResumeHealth         ResumeHealth         `json:"resumeHealth"`
	KeywordDensity       KeywordDensity       `json:"keywordDensity"`
	CompetitivePosition  CompetitivePosition  `json:"competitivePosition"`
}

// Readiness is the apply / improve / rework verdict.
type Readiness struct {
	Status  string `json:"status"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// PriorityAction is one concrete next step with its estimated score gain.
type PriorityAction struct {
	Action               string `json:"action"`
	Priority             string `json:"priority"`
	EstimatedImprovement int    `json:"estimatedImprovement"`
	Reason               string `json:"reason"`
}

// MatchStrength labels one assessment area with a qualitative strength.
type MatchStrength struct {
	Area     string `json:"area"`
	Score    int    `json:"score"`
	Strength string `json:"strength"`
}

// ImprovementPotential estimates the score reachable by closing the
// identified gaps.
type ImprovementPotential struct {
	CurrentScore   int               `json:"currentScore"`
	PotentialScore int               `json:"potentialScore"`
	Breakdown      []ImprovementItem `json:"breakdown"`
}

type ImprovementItem struct {
	Area string `json:"area"`
	Gain int    `json:"gain"`
}

// Confidence expresses how much the analysis signals agree.
type Confidence struct {
	Score   int    `json:"score"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ResumeHealth grades the resume's standalone parseability.
type ResumeHealth struct {
	Score int    `json:"score"`
	Grade string `json:"grade"`
}

// KeywordDensity summarizes keyword coverage by category.
type KeywordDensity struct {
	MatchRate  int    `json:"matchRate"`
	Rating     string `json:"rating"`
	Technical  int    `json:"technical"`
	Abilities  int    `json:"abilities"`
	Contextual int    `json:"contextual"`
}

// CompetitivePosition places the candidate among a typical applicant pool.
type CompetitivePosition struct {
	Tier       string `json:"tier"`
	Percentile string `json:"percentile"`
	Message    string `json:"message"`
}

// Build assembles the complete insight report from an analysis result.
func Build(result types.AnalysisResult) Report {
	return Report{
		Readiness:            BuildReadiness(result),
		PriorityActions:      BuildPriorityActions(result),
		MatchStrength:        BuildMatchStrength(result),
		ImprovementPotential: BuildImprovementPotential(result),
		Confidence:           BuildConfidence(result),
		ResumeHealth:         BuildResumeHealth(result),
		KeywordDensity:       BuildKeywordDensity(result),
		CompetitivePosition:  BuildCompetitivePosition(result),
	}
}

// BuildReadiness computes the application readiness verdict.
func BuildReadiness(result types.AnalysisResult) Readiness {
	missingCritical := len(missingTechnical(result.SkillsAnalysis.Missing))
	coverageRate := fullCoverageRate(result.Augmentation.RequirementCoverage)

	switch {
	case result.OverallScore >= 80 && coverageRate >= 0.7 && missingCritical == 0:
		return Readiness{
			Status:  "READY TO APPLY",
			Color:   "green",
			Message: "Your profile strongly matches this role. Apply with confidence.",
		}
	case result.OverallScore >= 60 && missingCritical <= 2:
		return Readiness{
			Status:  "IMPROVE FIRST",
			Color:   "amber",
			Message: "A few targeted improvements would substantially raise your chances.",
		}
	default:
		return Readiness{
			Status:  "NEEDS WORK",
			Color:   "red",
			Message: "Your resume needs significant revision before applying to this role.",
		}
	}
}

// BuildPriorityActions derives up to five next steps, ordered by
// estimated score gain.
func BuildPriorityActions(result types.AnalysisResult) []PriorityAction {
	var actions []PriorityAction

	missingTech := missingTechnical(result.SkillsAnalysis.Missing)
	for i, skill := range missingTech {
		if i >= 2 {
			break
		}
		actions = append(actions, PriorityAction{
			Action:               fmt.Sprintf("Add %s to your skills section", skill),
			Priority:             "HIGH",
			EstimatedImprovement: 15 - 3*i,
			Reason:               "Critical technical requirement not found",
		})
	}

	uncoveredCount := 0
	for _, rc := range notCovered(result.Augmentation.RequirementCoverage) {
		if rc.Confidence <= 0.5 || uncoveredCount >= 2 {
			continue
		}
		actions = append(actions, PriorityAction{
			Action:               "Address requirement: " + truncate(rc.Requirement, 60),
			Priority:             "HIGH",
			EstimatedImprovement: 12,
			Reason:               "Job requirement has no supporting evidence in your resume",
		})
		uncoveredCount++
	}

	if result.CategoryScores.ATS < 70 && len(result.ATSCompatibility.Issues) > 0 {
		actions = append(actions, PriorityAction{
			Action:               "Fix ATS issue: " + result.ATSCompatibility.Issues[0],
			Priority:             "MEDIUM",
			EstimatedImprovement: 8,
			Reason:               "Parsing problems hide content from screening systems",
		})
	}

	if abilities := missingAbilities(result.SkillsAnalysis.Missing); len(abilities) > 0 {
		actions = append(actions, PriorityAction{
			Action:               fmt.Sprintf("Demonstrate %s with concrete examples", abilities[0]),
			Priority:             "MEDIUM",
			EstimatedImprovement: 6,
			Reason:               "Soft skill the posting asks for is not evidenced",
		})
	}

	if result.CategoryScores.Keywords < 60 && len(result.MissingKeywords) > 0 {
		kws := result.MissingKeywords
		if len(kws) > maxListedItems {
			kws = kws[:maxListedItems]
		}
		gain := 2 * len(kws)
		if gain > 10 {
			gain = 10
		}
		actions = append(actions, PriorityAction{
			Action:               "Weave these terms into your resume: " + joinFirst(kws, maxListedItems),
			Priority:             "MEDIUM",
			EstimatedImprovement: gain,
			Reason:               "Low keyword overlap with the job description",
		})
	}

	if len(actions) > 5 {
		actions = actions[:5]
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].EstimatedImprovement > actions[j].EstimatedImprovement
	})
	return actions
}

func strengthLabel(s int) string {
	switch {
	case s >= 90:
		return "EXCELLENT"
	case s >= 80:
		return "STRONG"
	case s >= 70:
		return "GOOD"
	case s >= 60:
		return "MODERATE"
	default:
		return "WEAK"
	}
}

// BuildMatchStrength labels the five assessment areas.
func BuildMatchStrength(result types.AnalysisResult) []MatchStrength {
	coverageScore := int(fullCoverageRate(result.Augmentation.RequirementCoverage) * 100)

	areas := []MatchStrength{
		{Area: "Technical Skills", Score: result.CategoryScores.Skills},
		{Area: "Requirements Met", Score: coverageScore},
		{Area: "Semantic Fit", Score: result.CategoryScores.Semantic},
		{Area: "Experience Level", Score: result.CategoryScores.Experience},
		{Area: "ATS Compatibility", Score: result.CategoryScores.ATS},
	}
	for i := range areas {
		areas[i].Strength = strengthLabel(areas[i].Score)
	}
	return areas
}

// BuildImprovementPotential estimates reachable score gains per gap area.
func BuildImprovementPotential(result types.AnalysisResult) ImprovementPotential {
	techGain := min(len(missingTechnical(result.SkillsAnalysis.Missing))*5, 20)
	reqGain := min(len(notCovered(result.Augmentation.RequirementCoverage))*3, 15)
	atsGain := min(len(result.ATSCompatibility.Issues)*5, 10)

	potential := ImprovementPotential{
		CurrentScore:   result.OverallScore,
		PotentialScore: score.Clamp(result.OverallScore + techGain + reqGain + atsGain),
	}
	if techGain > 0 {
		potential.Breakdown = append(potential.Breakdown, ImprovementItem{"Missing technical skills", techGain})
	}
	if reqGain > 0 {
		potential.Breakdown = append(potential.Breakdown, ImprovementItem{"Unmet requirements", reqGain})
	}
	if atsGain > 0 {
		potential.Breakdown = append(potential.Breakdown, ImprovementItem{"ATS issues", atsGain})
	}
	return potential
}

// BuildConfidence blends the major signals into an agreement score.
func BuildConfidence(result types.AnalysisResult) Confidence {
	similarity := 50
	if result.Augmentation.Similarity.Used && result.Augmentation.Similarity.Score != nil {
		similarity = *result.Augmentation.Similarity.Score
	}

	reqRate := 0.5
	if len(result.Augmentation.RequirementCoverage) > 0 {
		reqRate = fullCoverageRate(result.Augmentation.RequirementCoverage)
	}

	criticalFactor := 1.0
	if n := len(missingTechnical(result.SkillsAnalysis.Missing)); n > 0 {
		criticalFactor = 1 - 0.2*float64(n)
		if criticalFactor < 0.3 {
			criticalFactor = 0.3
		}
	}

	value := (float64(result.OverallScore)/100)*0.3 +
		(float64(similarity)/100)*0.25 +
		reqRate*0.25 +
		criticalFactor*0.2
	confidenceScore := score.Clamp(int(value * 100))

	switch {
	case confidenceScore >= 75:
		return Confidence{confidenceScore, "HIGH", "The analysis signals agree. This assessment is reliable."}
	case confidenceScore >= 50:
		return Confidence{confidenceScore, "MODERATE", "Most signals agree, with some uncertainty in the details."}
	default:
		return Confidence{confidenceScore, "LOW", "Signals conflict or are incomplete. Treat this assessment as a rough guide."}
	}
}

// BuildResumeHealth grades standalone resume quality from the ATS score.
func BuildResumeHealth(result types.AnalysisResult) ResumeHealth {
	s := result.ATSCompatibility.Score
	var grade string
	switch {
	case s >= 90:
		grade = "A"
	case s >= 80:
		grade = "B"
	case s >= 70:
		grade = "C"
	case s >= 60:
		grade = "D"
	default:
		grade = "F"
	}
	return ResumeHealth{Score: s, Grade: grade}
}

// BuildKeywordDensity summarizes keyword coverage.
func BuildKeywordDensity(result types.AnalysisResult) KeywordDensity {
	matched := len(result.MatchedKeywords)
	total := matched + len(result.MissingKeywords)

	matchRate := 100
	if total > 0 {
		matchRate = int(float64(matched) / float64(total) * 100)
	}

	var rating string
	switch {
	case matchRate >= 70:
		rating = "EXCELLENT"
	case matchRate >= 50:
		rating = "GOOD"
	default:
		rating = "NEEDS WORK"
	}

	density := KeywordDensity{MatchRate: matchRate, Rating: rating}
	if ck := result.Augmentation.CategorizedKeywords; ck != nil {
		density.Technical = len(ck.Technical.Matched)
		density.Abilities = len(ck.Abilities.Matched)
		density.Contextual = len(ck.Contextual.Matched)
	} else {
		density.Contextual = matched
	}
	return density
}

// BuildCompetitivePosition places the score in a typical applicant pool.
func BuildCompetitivePosition(result types.AnalysisResult) CompetitivePosition {
	switch {
	case result.OverallScore >= 85:
		return CompetitivePosition{"TOP TIER", "Top 10%", "Your profile stands out. You are among the strongest likely applicants."}
	case result.OverallScore >= 75:
		return CompetitivePosition{"STRONG", "Top 25%", "Your profile is stronger than most applicants for this role."}
	case result.OverallScore >= 65:
		return CompetitivePosition{"COMPETITIVE", "Top 50%", "Your profile is competitive but has clear room to stand out more."}
	default:
		return CompetitivePosition{"BELOW AVERAGE", "Bottom 50%", "Your profile trails the typical applicant pool for this role."}
	}
}

// truncate shortens s to at most n bytes, cutting on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
