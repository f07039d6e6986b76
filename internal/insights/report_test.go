package insights

import (
	"testing"
	"unicode/utf8"

	"fitcheck/internal/types"
)

func fullCoverage(n int) []types.RequirementCoverage {
	out := make([]types.RequirementCoverage, n)
	for i := range out {
		out[i] = types.RequirementCoverage{Requirement: "req", Coverage: types.CoverageFull, Confidence: 0.9}
	}
	return out
}

func TestBuildReadiness(t *testing.T) {
	tests := []struct {
		name     string
		result   types.AnalysisResult
		expected string
	}{
		{
			name: "ready",
			result: types.AnalysisResult{
				OverallScore: 85,
				Augmentation: types.Augmentation{RequirementCoverage: fullCoverage(4)},
			},
			expected: "READY TO APPLY",
		},
		{
			name: "high score but missing critical skill",
			result: types.AnalysisResult{
				OverallScore:   85,
				SkillsAnalysis: types.SkillsAnalysis{Missing: []string{"Kubernetes"}},
				Augmentation:   types.Augmentation{RequirementCoverage: fullCoverage(4)},
			},
			expected: "IMPROVE FIRST",
		},
		{
			name: "decent score, few gaps",
			result: types.AnalysisResult{
				OverallScore:   65,
				SkillsAnalysis: types.SkillsAnalysis{Missing: []string{"Go", "SQL"}},
			},
			expected: "IMPROVE FIRST",
		},
		{
			name: "too many critical gaps",
			result: types.AnalysisResult{
				OverallScore:   65,
				SkillsAnalysis: types.SkillsAnalysis{Missing: []string{"Go", "SQL", "Docker"}},
			},
			expected: "NEEDS WORK",
		},
		{
			name:     "low score",
			result:   types.AnalysisResult{OverallScore: 40},
			expected: "NEEDS WORK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildReadiness(tt.result)
			if got.Status != tt.expected {
				t.Errorf("status = %q, want %q", got.Status, tt.expected)
			}
			if got.Message == "" || got.Color == "" {
				t.Errorf("incomplete readiness: %+v", got)
			}
		})
	}
}

func TestBuildPriorityActions(t *testing.T) {
	result := types.AnalysisResult{
		OverallScore:   50,
		CategoryScores: types.CategoryScores{ATS: 60, Keywords: 50},
		SkillsAnalysis: types.SkillsAnalysis{
			Missing: []string{"Go", "Kubernetes", "Terraform", "Leadership"},
		},
		MissingKeywords: []string{"grpc", "kafka"},
		ATSCompatibility: types.ATSCompatibility{
			Issues: []string{"Missing contact information"},
		},
		Augmentation: types.Augmentation{
			RequirementCoverage: []types.RequirementCoverage{
				{Requirement: "5 years building distributed systems", Coverage: types.CoverageNone, Confidence: 0.8},
			},
		},
	}

	actions := BuildPriorityActions(result)

	if len(actions) != 5 {
		t.Fatalf("got %d actions, want 5: %+v", len(actions), actions)
	}
	for i := 1; i < len(actions); i++ {
		if actions[i].EstimatedImprovement > actions[i-1].EstimatedImprovement {
			t.Errorf("actions not sorted by estimated improvement: %+v", actions)
		}
	}
	if actions[0].EstimatedImprovement != 15 {
		t.Errorf("top action improvement = %d, want 15", actions[0].EstimatedImprovement)
	}
}

func TestBuildPriorityActionsSkipsLowConfidenceRequirements(t *testing.T) {
	result := types.AnalysisResult{
		Augmentation: types.Augmentation{
			RequirementCoverage: []types.RequirementCoverage{
				{Requirement: "vague requirement", Coverage: types.CoverageNone, Confidence: 0.2},
			},
		},
	}

	actions := BuildPriorityActions(result)
	if len(actions) != 0 {
		t.Errorf("low-confidence uncovered requirement should not produce an action: %+v", actions)
	}
}

func TestBuildMatchStrength(t *testing.T) {
	result := types.AnalysisResult{
		CategoryScores: types.CategoryScores{Skills: 92, Experience: 61, Semantic: 74, ATS: 45},
	}

	areas := BuildMatchStrength(result)
	if len(areas) != 5 {
		t.Fatalf("got %d areas, want 5", len(areas))
	}

	byArea := map[string]string{}
	for _, a := range areas {
		byArea[a.Area] = a.Strength
	}
	if byArea["Technical Skills"] != "EXCELLENT" {
		t.Errorf("Technical Skills = %q", byArea["Technical Skills"])
	}
	if byArea["Semantic Fit"] != "GOOD" {
		t.Errorf("Semantic Fit = %q", byArea["Semantic Fit"])
	}
	if byArea["Experience Level"] != "MODERATE" {
		t.Errorf("Experience Level = %q", byArea["Experience Level"])
	}
	if byArea["ATS Compatibility"] != "WEAK" {
		t.Errorf("ATS Compatibility = %q", byArea["ATS Compatibility"])
	}
}

func TestBuildImprovementPotential(t *testing.T) {
	result := types.AnalysisResult{
		OverallScore:   60,
		SkillsAnalysis: types.SkillsAnalysis{Missing: []string{"Go", "SQL"}},
		ATSCompatibility: types.ATSCompatibility{
			Issues: []string{"issue one", "issue two", "issue three"},
		},
	}

	potential := BuildImprovementPotential(result)
	if potential.CurrentScore != 60 {
		t.Errorf("current = %d", potential.CurrentScore)
	}
	// 2 skills * 5 + 3 issues capped at 10
	if potential.PotentialScore != 80 {
		t.Errorf("potential = %d, want 80", potential.PotentialScore)
	}
	if len(potential.Breakdown) != 2 {
		t.Errorf("breakdown = %+v, want 2 areas", potential.Breakdown)
	}
}

func TestBuildImprovementPotentialClamped(t *testing.T) {
	result := types.AnalysisResult{
		OverallScore:   95,
		SkillsAnalysis: types.SkillsAnalysis{Missing: []string{"Go", "SQL", "Docker", "Redis", "Kafka"}},
	}

	potential := BuildImprovementPotential(result)
	if potential.PotentialScore != 100 {
		t.Errorf("potential = %d, want clamp at 100", potential.PotentialScore)
	}
}

func TestBuildConfidenceLevels(t *testing.T) {
	sim := 90
	high := types.AnalysisResult{
		OverallScore: 90,
		Augmentation: types.Augmentation{
			Similarity:          types.SimilaritySignal{Used: true, Score: &sim},
			RequirementCoverage: fullCoverage(3),
		},
	}
	if got := BuildConfidence(high); got.Level != "HIGH" {
		t.Errorf("level = %q (score %d), want HIGH", got.Level, got.Score)
	}

	low := types.AnalysisResult{
		OverallScore:   20,
		SkillsAnalysis: types.SkillsAnalysis{Missing: []string{"Go", "SQL", "Docker", "Redis"}},
		Augmentation: types.Augmentation{
			RequirementCoverage: []types.RequirementCoverage{
				{Coverage: types.CoverageNone},
				{Coverage: types.CoverageNone},
			},
		},
	}
	if got := BuildConfidence(low); got.Level != "LOW" {
		t.Errorf("level = %q (score %d), want LOW", got.Level, got.Score)
	}
}

func TestBuildResumeHealth(t *testing.T) {
	tests := []struct {
		score int
		grade string
	}{
		{95, "A"}, {85, "B"}, {75, "C"}, {65, "D"}, {30, "F"},
	}
	for _, tt := range tests {
		result := types.AnalysisResult{ATSCompatibility: types.ATSCompatibility{Score: tt.score}}
		if got := BuildResumeHealth(result); got.Grade != tt.grade {
			t.Errorf("grade for %d = %q, want %q", tt.score, got.Grade, tt.grade)
		}
	}
}

func TestBuildKeywordDensity(t *testing.T) {
	result := types.AnalysisResult{
		MatchedKeywords: []string{"go", "sql", "docker"},
		MissingKeywords: []string{"kafka"},
	}

	density := BuildKeywordDensity(result)
	if density.MatchRate != 75 {
		t.Errorf("matchRate = %d, want 75", density.MatchRate)
	}
	if density.Rating != "EXCELLENT" {
		t.Errorf("rating = %q", density.Rating)
	}
	if density.Contextual != 3 {
		t.Errorf("contextual = %d, want fallback to plain matched count", density.Contextual)
	}
}

func TestBuildCompetitivePosition(t *testing.T) {
	tests := []struct {
		overall    int
		tier       string
		percentile string
	}{
		{90, "TOP TIER", "Top 10%"},
		{80, "STRONG", "Top 25%"},
		{70, "COMPETITIVE", "Top 50%"},
		{50, "BELOW AVERAGE", "Bottom 50%"},
	}
	for _, tt := range tests {
		result := types.AnalysisResult{OverallScore: tt.overall}
		got := BuildCompetitivePosition(result)
		if got.Tier != tt.tier || got.Percentile != tt.percentile {
			t.Errorf("position for %d = %+v, want %s/%s", tt.overall, got, tt.tier, tt.percentile)
		}
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("short string changed: %q", got)
	}

	// cutting inside the two-byte "é" must back up to the rune start
	got := truncate("aéé", 3)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != "aé..." {
		t.Errorf("truncate = %q, want %q", got, "aé...")
	}
}
