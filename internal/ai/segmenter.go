package ai

import (
	"regexp"
	"strings"
)

// RequirementSegmenter splits a job description into individual
// requirement statements for coverage classification.
type RequirementSegmenter interface {
	Segment(jobText string) []string
}

// LineSegmenter extracts requirements from bullet lists, numbered lists
// and requirement-shaped sentences.
type LineSegmenter struct {
	MaxRequirements int
}

var _ RequirementSegmenter = (*LineSegmenter)(nil)

var (
	bulletRe   = regexp.MustCompile(`^\s*([-*•▪◦]|\d+[.)])\s+`)
	sentenceRe = regexp.MustCompile(`[.!?]\s+`)
)

// requirementCues mark prose sentences that state a requirement.
var requirementCues = []string{
	"must", "required", "requirement", "experience with", "experience in",
	"years of", "ability to", "proficien", "familiar with", "knowledge of",
	"expertise",
}

const (
	minRequirementLen = 20
	maxRequirementLen = 200
)

// Segment returns up to MaxRequirements requirement statements in
// document order. Bulleted and numbered lines win; when a line is prose,
// its requirement-shaped sentences are taken instead.
func (s *LineSegmenter) Segment(jobText string) []string {
	max := s.MaxRequirements
	if max <= 0 {
		max = 8
	}

	var requirements []string
	seen := make(map[string]struct{})

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if len(candidate) < minRequirementLen || len(candidate) > maxRequirementLen {
			return
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		requirements = append(requirements, candidate)
	}

	for _, line := range strings.Split(jobText, "\n") {
		if len(requirements) >= max {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if bulletRe.MatchString(trimmed) {
			add(bulletRe.ReplaceAllString(trimmed, ""))
			continue
		}

		for _, sentence := range sentenceRe.Split(trimmed, -1) {
			if len(requirements) >= max {
				break
			}
			if hasRequirementCue(sentence) {
				add(sentence)
			}
		}
	}

	if len(requirements) > max {
		requirements = requirements[:max]
	}
	return requirements
}

func hasRequirementCue(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, cue := range requirementCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
