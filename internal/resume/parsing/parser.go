// Package parsing turns extracted résumé text into a structured
// candidate profile. The parser normalizes the text, segments it into
// canonical sections, and runs per-section extractors. Sections that
// are missing or malformed degrade the parsing confidence instead of
// failing the parse.
package parsing

import (
	"sort"
	"strings"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/logger"
)

// Parser assembles a CandidateProfile from raw extracted text.
type Parser struct {
	log *logger.Logger
}

func NewParser(log *logger.Logger) *Parser {
	return &Parser{log: log.WithComponent("parsing")}
}

// Parse normalizes, segments, and extracts structured fields from text.
// It returns a ParsingError only when the input contains no usable
// text; partial résumés produce a profile with reduced confidence.
func (p *Parser) Parse(text string) (*domain.CandidateProfile, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, &domain.ParsingError{Reason: "no usable text", Err: domain.ErrEmptyText}
	}

	sections := Segment(normalized)

	profile := &domain.CandidateProfile{
		Contact: ParseContact(sections[domain.SectionContact], normalized),
	}

	if summary, ok := sections[domain.SectionSummary]; ok {
		profile.Summary = collapseSection(summary)
	}
	if body, ok := sections[domain.SectionExperience]; ok {
		profile.WorkExperience = ParseExperience(body)
	}
	if body, ok := sections[domain.SectionEducation]; ok {
		profile.Education = ParseEducation(body)
	}
	if body, ok := sections[domain.SectionSkills]; ok {
		profile.Skills = ParseSkills(body)
	}
	if body, ok := sections[domain.SectionProjects]; ok {
		profile.Projects = ParseProjects(body)
	}
	if body, ok := sections[domain.SectionCertifications]; ok {
		profile.Certifications = ParseCertifications(body)
	}
	if body, ok := sections[domain.SectionLanguages]; ok {
		profile.Languages = ParseLanguages(body)
	}
	if body, ok := sections[domain.SectionAchievements]; ok {
		profile.Achievements = ParseAchievements(body)
	}

	// Skills found inside work entries complement the skills section.
	profile.Skills = dedupeFold(append(profile.Skills, findTechnologies(normalized)...))

	profile.SectionsFound = sectionsFound(sections)
	profile.ParsingConfidence = parsingConfidence(profile)

	p.log.Debug().
		Int("sections", len(profile.SectionsFound)).
		Int("work_entries", len(profile.WorkExperience)).
		Int("skills", len(profile.Skills)).
		Float64("confidence", profile.ParsingConfidence).
		Msg("parsed resume text")

	return profile, nil
}

// collapseSection joins a section body into a single paragraph.
func collapseSection(body string) string {
	lines := nonEmptyLines(body)
	return strings.Join(lines, " ")
}

// sectionsFound returns the located section types in canonical order.
func sectionsFound(sections map[domain.SectionType]string) []domain.SectionType {
	order := make(map[domain.SectionType]int, len(domain.AllSections))
	for i, s := range domain.AllSections {
		order[s] = i
	}

	found := make([]domain.SectionType, 0, len(sections))
	for s := range sections {
		found = append(found, s)
	}
	sort.Slice(found, func(i, j int) bool { return order[found[i]] < order[found[j]] })
	return found
}

// parsingConfidence scores how much structure was recovered. A bare
// text with no sections scores 0.2; a résumé with contact details,
// several sections, and dated work history approaches 0.9.
func parsingConfidence(profile *domain.CandidateProfile) float64 {
	score := 0.2

	sectionBonus := 0.08 * float64(len(profile.SectionsFound))
	if sectionBonus > 0.4 {
		sectionBonus = 0.4
	}
	score += sectionBonus

	if profile.Contact.Email != "" {
		score += 0.1
	}
	if profile.Contact.Name != "" {
		score += 0.05
	}
	if len(profile.WorkExperience) > 0 {
		score += 0.1
	}
	if len(profile.Education) > 0 {
		score += 0.05
	}

	return domain.Clamp(score)
}
