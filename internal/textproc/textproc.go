// Package textproc provides the plain-text primitives shared by the
// heuristic analysis stages: normalization, tokenization, contact and
// section detection, and years-of-experience extraction.
package textproc

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	urlRe   = regexp.MustCompile(`https?://[^\s]+`)

	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of)?\s*experience`),
		regexp.MustCompile(`(?i)experience:\s*(\d+)\+?\s*years?`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*in`),
	}
)

// sectionPatterns maps a canonical section name to the heading forms that
// commonly introduce it.
var sectionPatterns = map[string]*regexp.Regexp{
	"experience": regexp.MustCompile(`(?i)\b(work\s+experience|experience|employment(\s+history)?|professional\s+background)\b`),
	"education":  regexp.MustCompile(`(?i)\b(education|academic|qualifications?|degrees?)\b`),
	"skills":     regexp.MustCompile(`(?i)\b(skills|technical\s+skills|competenc(y|ies)|technologies)\b`),
	"summary":    regexp.MustCompile(`(?i)\b(summary|objective|profile|about)\b`),
}

// Normalize lowercases text, strips punctuation and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize splits normalized text into lowercase word tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// CountWords returns the number of whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ContactInfo holds contact details detected in a document.
type ContactInfo struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
	URLs   []string `json:"urls"`
}

// ExtractContact collects emails, phone numbers and URLs from text.
func ExtractContact(text string) ContactInfo {
	return ContactInfo{
		Emails: emailRe.FindAllString(text, -1),
		Phones: phoneRe.FindAllString(text, -1),
		URLs:   urlRe.FindAllString(text, -1),
	}
}

// HasEmail reports whether text contains an email address.
func HasEmail(text string) bool {
	return emailRe.MatchString(text)
}

// HasPhone reports whether text contains a phone number.
func HasPhone(text string) bool {
	return phoneRe.MatchString(text)
}

// DetectSections reports which canonical resume sections have a recognizable
// heading in the text. Detection only scans short lines so body prose that
// merely mentions a section word does not count as a heading.
func DetectSections(text string) map[string]bool {
	found := make(map[string]bool, len(sectionPatterns))
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) > 60 {
			continue
		}
		for name, re := range sectionPatterns {
			if !found[name] && re.MatchString(trimmed) {
				found[name] = true
			}
		}
	}
	return found
}

// ExtractYearsOfExperience finds an explicit years-of-experience claim in
// the text. It returns nil when the text makes no such claim.
func ExtractYearsOfExperience(text string) *int {
	for _, re := range yearsPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			years, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return &years
		}
	}
	return nil
}
