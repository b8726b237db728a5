package parsing

import (
	"regexp"
	"strings"
)

// Candidate skill tokens are bounded to weed out sentences and stray
// punctuation picked up by the delimiter split.
const (
	minSkillLength = 2
	maxSkillLength = 49
)

// skillDelimiters split a skills section into candidate tokens:
// bullets, commas, semicolons, pipes, newlines, and spaced hyphens.
var skillDelimiters = regexp.MustCompile(`[•,;|\n]|\s-\s`)

// ParseSkills tokenizes the skills section into a deduplicated,
// length-bounded candidate list, unioned with matches from the curated
// technology vocabulary anywhere in the section.
func ParseSkills(sectionText string) []string {
	var candidates []string

	for _, token := range skillDelimiters.Split(sectionText, -1) {
		token = strings.Trim(strings.TrimSpace(token), ".:")
		if len(token) < minSkillLength || len(token) > maxSkillLength {
			continue
		}
		candidates = append(candidates, token)
	}

	candidates = append(candidates, findTechnologies(sectionText)...)

	return dedupeFold(candidates)
}
