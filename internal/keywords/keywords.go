// Package keywords extracts the significant terms of a job description and
// checks which of them a resume mentions.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMax caps how many job keywords one extraction returns.
const DefaultMax = 30

var wordRe = regexp.MustCompile(`^[a-z]+$`)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {}, "who": {},
	"which": {}, "why": {}, "how": {},
}

// Extract returns up to max keywords from text, ranked by frequency.
// Only alphabetic tokens longer than two characters survive; stop words
// are dropped. Ties keep first-occurrence order so extraction is
// deterministic.
func Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	freq := make(map[string]int)
	var order []string

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]{}\"'")
		if len(token) <= 2 || !wordRe.MatchString(token) {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if freq[token] == 0 {
			order = append(order, token)
		}
		freq[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > max {
		order = order[:max]
	}
	return order
}

// Match splits keywords into those present in resumeText and those absent.
// Presence is a case-insensitive substring test; input order is preserved
// in both outputs.
func Match(resumeText string, kws []string) (matched, missing []string) {
	lower := strings.ToLower(resumeText)
	for _, kw := range kws {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return matched, missing
}
