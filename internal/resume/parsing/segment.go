package parsing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

// sectionHeadings maps each canonical section type to its
// case-insensitive heading variants. A heading matches only when the
// variant is the whole line (optionally followed by a colon), so longer
// variants like "work experience" never collide with "experience".
var sectionHeadings = map[domain.SectionType][]string{
	domain.SectionContact: {
		"contact", "contact information", "personal information", "personal details",
	},
	domain.SectionSummary: {
		"summary", "professional summary", "objective", "career objective",
		"profile", "about me", "about",
	},
	domain.SectionExperience: {
		"experience", "work experience", "professional experience",
		"employment", "employment history", "work history", "career history",
	},
	domain.SectionEducation: {
		"education", "academic background", "academic qualifications", "qualifications",
	},
	domain.SectionSkills: {
		"skills", "technical skills", "core competencies", "technologies",
		"skills & abilities",
	},
	domain.SectionProjects: {
		"projects", "personal projects", "key projects", "selected projects",
	},
	domain.SectionCertifications: {
		"certifications", "certificates", "licenses", "certifications & licenses",
	},
	domain.SectionLanguages: {
		"languages", "language proficiency",
	},
	domain.SectionAchievements: {
		"achievements", "accomplishments", "awards", "honors", "awards & honors",
	},
}

var headingPatterns = compileHeadings()

type headingPattern struct {
	section domain.SectionType
	re      *regexp.Regexp
}

func compileHeadings() []headingPattern {
	var patterns []headingPattern
	for section, variants := range sectionHeadings {
		for _, v := range variants {
			// Whole-line match, optional trailing colon.
			re := regexp.MustCompile(`(?mi)^` + regexp.QuoteMeta(v) + `[ ]*:?[ ]*$`)
			patterns = append(patterns, headingPattern{section: section, re: re})
		}
	}
	return patterns
}

// occurrence is one located heading: the section it resolves to and the
// span of its heading line.
type occurrence struct {
	section domain.SectionType
	start   int
	end     int // offset just past the heading line (excl. newline)
}

// Segment partitions normalized text into canonical résumé sections.
// Each section's content spans from just after its heading line to the
// start of the next heading (or end of text); the heading line itself is
// excluded. When a section type occurs more than once, the last
// occurrence wins.
func Segment(text string) map[domain.SectionType]string {
	var occs []occurrence
	for _, p := range headingPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			occs = append(occs, occurrence{section: p.section, start: loc[0], end: loc[1]})
		}
	}

	sort.Slice(occs, func(i, j int) bool { return occs[i].start < occs[j].start })

	sections := make(map[domain.SectionType]string)
	for i, occ := range occs {
		contentStart := occ.end
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}
		contentEnd := len(text)
		if i+1 < len(occs) {
			contentEnd = occs[i+1].start
		}
		if contentStart > contentEnd {
			contentStart = contentEnd
		}
		// Later heading wins for a repeated section type.
		sections[occ.section] = strings.TrimSpace(text[contentStart:contentEnd])
	}

	return sections
}
