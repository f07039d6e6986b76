// Package skills detects known skills in free text and matches a resume's
// skill set against a job's required skills.
package skills

import "strings"

// Technical is the canonical technical skill vocabulary.
var Technical = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "Ruby", "Go",
	"Rust", "Swift", "React", "Angular", "Vue", "Next.js", "Node.js",
	"Express", "Django", "Flask", "SQL", "PostgreSQL", "MySQL", "MongoDB",
	"Redis", "GraphQL", "AWS", "Azure", "GCP", "Docker", "Kubernetes",
	"CI/CD", "Git", "Machine Learning", "AI", "Data Science", "TensorFlow",
	"PyTorch",
}

// Soft is the canonical soft skill vocabulary.
var Soft = []string{
	"Communication", "Leadership", "Team Collaboration", "Problem Solving",
	"Critical Thinking", "Time Management", "Adaptability", "Creativity",
}

// synonyms maps a lowercased canonical skill to alternate spellings that
// count as the same skill.
var synonyms = map[string][]string{
	"javascript": {"js", "ecmascript", "es6", "es2015"},
	"typescript": {"ts"},
	"react":      {"reactjs", "react.js"},
	"angular":    {"angularjs", "angular.js"},
	"vue":        {"vuejs", "vue.js"},
	"node":       {"nodejs", "node.js"},
	"python":     {"py"},
	"postgresql": {"postgres", "psql"},
	"mongodb":    {"mongo"},
	"aws":        {"amazon web services"},
	"gcp":        {"google cloud platform"},
}

var technicalSet = toLowerSet(Technical)
var softSet = toLowerSet(Soft)

func toLowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// IsTechnical reports whether skill is in the technical vocabulary.
func IsTechnical(skill string) bool {
	_, ok := technicalSet[strings.ToLower(skill)]
	return ok
}

// IsSoft reports whether skill is in the soft vocabulary.
func IsSoft(skill string) bool {
	_, ok := softSet[strings.ToLower(skill)]
	return ok
}

// contains reports whether text mentions skill directly or via a synonym.
func contains(lowerText, lowerSkill string) bool {
	if strings.Contains(lowerText, lowerSkill) {
		return true
	}
	for _, syn := range synonyms[lowerSkill] {
		if strings.Contains(lowerText, syn) {
			return true
		}
	}
	return false
}

// Extract returns every vocabulary skill mentioned in text, canonical
// names preserved, technical skills first.
func Extract(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range Technical {
		if contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	for _, skill := range Soft {
		if contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// Match compares resume skills against job-required skills. A required
// skill matches on an exact case-insensitive name or when one of its
// synonyms appears inside a resume skill. The percentage is
// matched/required scaled to 100, and 0 when the job requires nothing.
func Match(resumeSkills, jobSkills []string) (matched, missing []string, matchPercentage float64) {
	for _, required := range jobSkills {
		lowerRequired := strings.ToLower(required)
		if resumeHasSkill(resumeSkills, lowerRequired) {
			matched = append(matched, required)
		} else {
			missing = append(missing, required)
		}
	}

	if len(jobSkills) > 0 {
		matchPercentage = float64(len(matched)) / float64(len(jobSkills)) * 100
	}
	return matched, missing, matchPercentage
}

func resumeHasSkill(resumeSkills []string, lowerRequired string) bool {
	for _, s := range resumeSkills {
		if strings.ToLower(s) == lowerRequired {
			return true
		}
	}
	for _, syn := range synonyms[lowerRequired] {
		for _, s := range resumeSkills {
			if strings.Contains(strings.ToLower(s), syn) {
				return true
			}
		}
	}
	return false
}
