// Package ats runs the format-compatibility battery that approximates how
// applicant tracking systems parse a resume.
package ats

import (
	"math"
	"path/filepath"
	"strings"

	"fitcheck/internal/textproc"
	"fitcheck/internal/types"
)

const (
	minWords = 200
	maxWords = 800

	minDensity = 2.0
	maxDensity = 5.0

	specialCharLimit = 10
	nonASCIILimit    = 0.05
)

var specialChars = []rune("★☆●○◆◇■□▪▫✦✧➤➢➔→⇒✓✔✗✘†‡")

var imageMarkers = []string{"[image]", "<img", "data:image"}

// Checker runs the format-compatibility battery. It is stateless; the
// type exists so callers hold a single instance alongside the other
// pipeline stages.
type Checker struct{}

func NewChecker() *Checker { return &Checker{} }

// Check runs every compatibility rule against the resume text and returns
// the pass/warn/fail buckets with the aggregate sub-score.
func (c *Checker) Check(resumeText, fileName string) types.ATSCompatibility {
	var result types.ATSCompatibility

	pass := func(msg string) { result.PassedChecks = append(result.PassedChecks, msg) }
	warn := func(msg string) { result.Warnings = append(result.Warnings, msg) }
	fail := func(msg string) { result.Issues = append(result.Issues, msg) }

	// 1. File format
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "pdf" || ext == "docx" {
		pass("Standard file format (PDF or DOCX)")
	} else {
		fail("Non-standard file format - use PDF or DOCX")
	}

	// 2. Contact information
	hasEmail := textproc.HasEmail(resumeText)
	hasPhone := textproc.HasPhone(resumeText)
	switch {
	case hasEmail && hasPhone:
		pass("Contact information present (email and phone)")
	case hasEmail || hasPhone:
		warn("Incomplete contact information - include both email and phone")
	default:
		fail("Missing contact information")
	}

	// 3. Section headings
	sections := textproc.DetectSections(resumeText)
	headings := 0
	for _, name := range []string{"experience", "education", "skills"} {
		if sections[name] {
			headings++
		}
	}
	if headings >= 2 {
		pass("Proper section headings detected")
	} else {
		warn("Add clear section headings (Experience, Education, Skills)")
	}

	// 4. Special characters
	if countSpecialChars(resumeText) < specialCharLimit {
		pass("Minimal use of special characters")
	} else {
		warn("Reduce decorative symbols and special characters")
	}

	// 5. Length
	wordCount := textproc.CountWords(resumeText)
	switch {
	case wordCount >= minWords && wordCount <= maxWords:
		pass("Appropriate resume length")
	case wordCount < minWords:
		warn("Resume may be too short - aim for 200-800 words")
	default:
		warn("Resume may be too long - aim for 200-800 words")
	}

	// 6. Keyword density
	density := keywordDensity(resumeText)
	if density >= minDensity && density <= maxDensity {
		pass("Good keyword density")
	} else {
		warn("Keyword density could be improved")
	}

	// 7. Embedded images
	if hasImageMarkers(resumeText) {
		fail("Remove images - ATS cannot parse them")
	} else {
		pass("No embedded images detected")
	}

	// 8. Character encoding
	if nonASCIIRatio(resumeText) < nonASCIILimit {
		pass("Standard character encoding")
	} else {
		warn("Non-standard characters may not parse correctly")
	}

	result.Score = score(len(result.PassedChecks), len(result.Warnings), len(result.Issues))
	result.Recommendations = recommendations(result)
	return result
}

// score counts warnings at half weight.
func score(passed, warnings, failed int) int {
	total := passed + warnings + failed
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * (float64(passed) + 0.5*float64(warnings)) / float64(total)))
}

func countSpecialChars(text string) int {
	count := 0
	for _, r := range text {
		for _, special := range specialChars {
			if r == special {
				count++
				break
			}
		}
	}
	return count
}

// keywordDensity is the share of unique meaningful words (length > 3)
// among all words, as a percentage.
func keywordDensity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{})
	for _, w := range words {
		if len(w) > 3 {
			unique[w] = struct{}{}
		}
	}
	return float64(len(unique)) / float64(len(words)) * 100
}

func hasImageMarkers(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range imageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func nonASCIIRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	nonASCII := 0
	for _, r := range text {
		if r > 127 {
			nonASCII++
		}
	}
	return float64(nonASCII) / float64(len(text))
}

// recommendations derives the short advice list shown with the check
// results: the most pressing failure, the most pressing warning, and an
// overall verdict.
func recommendations(result types.ATSCompatibility) []string {
	var recs []string
	if len(result.Issues) > 0 {
		recs = append(recs, "🔴 Critical: "+result.Issues[0])
	}
	if len(result.Warnings) > 0 {
		recs = append(recs, "⚠️ Warning: "+result.Warnings[0])
	}
	switch {
	case result.Score >= 80:
		recs = append(recs, "✅ Your resume is well-optimized for ATS systems")
	case result.Score >= 60:
		recs = append(recs, "💡 Good ATS compatibility - a few improvements recommended")
	default:
		recs = append(recs, "❌ Significant ATS optimization needed")
	}
	return recs
}
