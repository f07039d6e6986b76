// Package score turns stage outputs into category sub-scores and the
// weighted overall compatibility score.
package score

import (
	"math"

	"fitcheck/internal/types"
)

// Category weights. They sum to 1.
const (
	WeightSkills     = 0.30
	WeightExperience = 0.25
	WeightKeywords   = 0.20
	WeightSemantic   = 0.15
	WeightATS        = 0.10
)

// seniorityYears maps a seniority hint to the years of experience the
// role is assumed to need.
var seniorityYears = map[string]int{
	"entry":  1,
	"mid":    4,
	"senior": 8,
	"lead":   12,
}

const defaultSeniorityYears = 3

// Clamp bounds a score to [0,100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Skills scores the skill category. A job that requires no skills scores
// a full 100.
func Skills(matched, required int) int {
	if required == 0 {
		return 100
	}
	return Clamp(int(math.Round(100 * float64(matched) / float64(required))))
}

// Keywords scores the keyword category. No extractable keywords means
// nothing to miss, so the score is 100.
func Keywords(matched, total int) int {
	if total == 0 {
		return 100
	}
	return Clamp(int(math.Round(100 * float64(matched) / float64(total))))
}

// Experience scores the resume's years of experience against what the
// seniority hint implies. An unstated experience claim scores a neutral 50.
func Experience(resumeYears *int, seniority string) int {
	if resumeYears == nil {
		return 50
	}

	needed, ok := seniorityYears[seniority]
	if !ok {
		needed = defaultSeniorityYears
	}

	ratio := float64(*resumeYears) / float64(needed)
	switch {
	case ratio >= 1:
		return 100
	case ratio >= 0.75:
		return 85
	case ratio >= 0.5:
		return 70
	case ratio >= 0.25:
		return 50
	default:
		return 30
	}
}

// Semantic scores the semantic category from the similarity signal,
// discounted to keep lexical overlap from double counting. A degraded
// signal scores a neutral 50.
func Semantic(similarity *int) int {
	if similarity == nil {
		return 50
	}
	return Clamp(int(math.Round(0.8 * float64(*similarity))))
}

// Overall combines the category scores with the weight table.
func Overall(cs types.CategoryScores) int {
	weighted := WeightSkills*float64(Clamp(cs.Skills)) +
		WeightExperience*float64(Clamp(cs.Experience)) +
		WeightKeywords*float64(Clamp(cs.Keywords)) +
		WeightSemantic*float64(Clamp(cs.Semantic)) +
		WeightATS*float64(Clamp(cs.ATS))
	return Clamp(int(math.Round(weighted)))
}

// Interpretation is the qualitative band an overall score falls into.
type Interpretation struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Interpret maps an overall score to its band.
func Interpret(overall int) Interpretation {
	switch {
	case overall >= 90:
		return Interpretation{"excellent", "Excellent match! Your resume is highly aligned with this job."}
	case overall >= 75:
		return Interpretation{"good", "Good match! You have a strong chance of consideration."}
	case overall >= 60:
		return Interpretation{"fair", "Fair match. Some optimization recommended."}
	case overall >= 45:
		return Interpretation{"poor", "Poor match. Significant improvements needed."}
	default:
		return Interpretation{"very-poor", "Very poor match. Major revision required."}
	}
}
