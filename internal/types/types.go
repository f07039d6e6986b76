package types

import "time"

// AnalysisRequest carries the two documents to compare plus optional hints.
type AnalysisRequest struct {
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
	Seniority          string `json:"seniority,omitempty"`
	FileName           string `json:"fileName,omitempty"`
}

// CategoryScores holds the per-category sub-scores, each in [0,100].
type CategoryScores struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Keywords   int `json:"keywords"`
	Semantic   int `json:"semantic"`
	ATS        int `json:"ats"`
}

// Recommendation is a single actionable suggestion.
type Recommendation struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// SkillMatch describes one job-required skill found in the resume.
type SkillMatch struct {
	Skill      string  `json:"skill"`
	Present    bool    `json:"present"`
	Confidence float64 `json:"confidence"`
}

// SkillsAnalysis is the skill-matching portion of a result.
type SkillsAnalysis struct {
	Matched         []SkillMatch `json:"matched"`
	Missing         []string     `json:"missing"`
	MatchPercentage float64      `json:"matchPercentage"`
}

// ATSCompatibility is the format-compatibility portion of a result.
type ATSCompatibility struct {
	Score           int      `json:"score"`
	PassedChecks    []string `json:"passedChecks"`
	Issues          []string `json:"issues"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// SimilaritySignal records whether semantic similarity was computed and,
// if not, why it degraded.
type SimilaritySignal struct {
	Used           bool   `json:"used"`
	Score          *int   `json:"score,omitempty"`
	DegradedReason string `json:"degradedReason,omitempty"`
}

// Skill confidence sources
const (
	SkillSourceExternal  = "external"
	SkillSourceHeuristic = "heuristic"
)

// KeywordBucket splits one keyword category into found and absent terms.
type KeywordBucket struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// CategorizedKeywords groups job keywords by kind.
type CategorizedKeywords struct {
	Technical  KeywordBucket `json:"technicalSkills"`
	Abilities  KeywordBucket `json:"abilities"`
	Contextual KeywordBucket `json:"significantKeywords"`
}

// Requirement coverage levels
const (
	CoverageFull    = "fully covered"
	CoveragePartial = "partially covered"
	CoverageNone    = "not covered"
)

// RequirementCoverage is the coverage verdict for one job requirement.
type RequirementCoverage struct {
	Requirement string  `json:"requirement"`
	Coverage    string  `json:"coverage"`
	Confidence  float64 `json:"confidence"`
}

// Augmentation collects the optional semantic signals. Every field degrades
// independently; a missing signal never fails an analysis.
type Augmentation struct {
	Similarity          SimilaritySignal      `json:"similarity"`
	SkillSource         string                `json:"skillSource"`
	CategorizedKeywords *CategorizedKeywords  `json:"categorizedKeywords,omitempty"`
	RequirementCoverage []RequirementCoverage `json:"requirementCoverage,omitempty"`
}

// AnalysisResult is the complete output of one analysis. It is immutable
// once returned; insight views derive from it without mutation.
type AnalysisResult struct {
	ID               string           `json:"id"`
	OverallScore     int              `json:"overallScore"`
	CategoryScores   CategoryScores   `json:"categoryScores"`
	Strengths        []string         `json:"strengths"`
	Weaknesses       []string         `json:"weaknesses"`
	MatchedKeywords  []string         `json:"matchedKeywords"`
	MissingKeywords  []string         `json:"missingKeywords"`
	Recommendations  []Recommendation `json:"recommendations"`
	SkillsAnalysis   SkillsAnalysis   `json:"skillsAnalysis"`
	ATSCompatibility ATSCompatibility `json:"atsCompatibility"`
	Augmentation     Augmentation     `json:"augmentation"`
	CreatedAt        time.Time        `json:"createdAt"`
}
