package parsing

import (
	"regexp"
	"strings"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

var (
	yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	gpaRe  = regexp.MustCompile(`(?i)GPA[:\s]+([0-4](?:\.\d{1,2})?)`)

	// degreeRe recognizes common degree tokens at the start of a header.
	degreeRe = regexp.MustCompile(`(?i)^(bachelor|master|doctor|ph\.?d|b\.?s\.?c?|m\.?s\.?c?|b\.?a|m\.?a|m\.?b\.?a|associate|diploma)`)
)

// ParseEducation extracts education entries from the education section.
// Header forms tried in order: "<degree> in <field> at <institution>",
// "<degree>, <institution>", bare institution.
func ParseEducation(sectionText string) []domain.Education {
	var educations []domain.Education

	for _, entry := range splitEntries(sectionText) {
		lines := nonEmptyLines(entry)
		if len(lines) == 0 {
			continue
		}

		edu := parseEducationHeader(lines[0])

		if m := yearRe.FindString(entry); m != "" {
			edu.GraduationYear = m
		}
		if m := gpaRe.FindStringSubmatch(entry); m != nil {
			edu.GPA = m[1]
		}

		educations = append(educations, edu)
	}

	return educations
}

func parseEducationHeader(header string) domain.Education {
	header = strings.TrimSpace(stripBullet(header))

	if degreeRe.MatchString(header) {
		// "<degree> in <field> at <institution>"
		if degreePart, institution, ok := splitOnce(header, " at "); ok {
			if degree, field, ok := splitOnce(degreePart, " in "); ok {
				return domain.Education{Degree: degree, Field: field, Institution: institution}
			}
			return domain.Education{Degree: degreePart, Institution: institution}
		}
		// "<degree>, <institution>"
		if degree, institution, ok := splitOnce(header, ","); ok {
			if d, field, found := splitOnce(degree, " in "); found {
				return domain.Education{Degree: d, Field: field, Institution: institution}
			}
			return domain.Education{Degree: degree, Institution: institution}
		}
		return domain.Education{Degree: header}
	}

	// Bare institution fallback.
	return domain.Education{Institution: header}
}
