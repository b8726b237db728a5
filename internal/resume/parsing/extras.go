package parsing

import (
	"regexp"
	"strings"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

var projectURLRe = regexp.MustCompile(`(?i)https?://[^\s,;)]+`)

// ParseProjects extracts project entries. The first line of each
// blank-line-separated block is the project name; remaining lines are
// description. Missing data is not an error.
func ParseProjects(sectionText string) []domain.Project {
	var projects []domain.Project

	for _, entry := range splitEntries(sectionText) {
		lines := nonEmptyLines(entry)
		if len(lines) == 0 {
			continue
		}

		proj := domain.Project{
			Name: strings.TrimSpace(stripDates(stripBullet(lines[0]))),
		}
		if proj.Name == "" {
			continue
		}

		if m := projectURLRe.FindString(entry); m != "" {
			proj.URL = strings.TrimRight(m, ".,;")
		}

		for _, line := range lines[1:] {
			line = stripBullet(line)
			if line != "" {
				proj.Description = append(proj.Description, line)
			}
		}

		proj.Technologies = findTechnologies(entry)
		projects = append(projects, proj)
	}

	return projects
}

// certSplitRe separates "name - issuer" and "name, issuer" forms.
var certSplitRe = regexp.MustCompile(`\s+[-–—]\s+|,\s+`)

// ParseCertifications extracts one certification per non-empty line.
func ParseCertifications(sectionText string) []domain.Certification {
	var certs []domain.Certification

	for _, line := range nonEmptyLines(sectionText) {
		line = stripBullet(line)
		if line == "" {
			continue
		}

		cert := domain.Certification{Name: line}

		if m := yearRe.FindString(line); m != "" {
			cert.Year = m
		}

		if parts := certSplitRe.Split(line, 2); len(parts) == 2 {
			cert.Name = strings.TrimSpace(parts[0])
			issuer := strings.TrimSpace(yearRe.ReplaceAllString(parts[1], ""))
			cert.Issuer = strings.Trim(issuer, " ,()-")
		} else {
			cert.Name = strings.TrimSpace(yearRe.ReplaceAllString(cert.Name, ""))
			cert.Name = strings.Trim(cert.Name, " ,()-")
		}

		if cert.Name != "" {
			certs = append(certs, cert)
		}
	}

	return certs
}

// proficiencyRe strips parenthesized proficiency notes, e.g.
// "Spanish (fluent)".
var proficiencyRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ParseLanguages extracts spoken languages from line-, comma- or
// bullet-separated tokens.
func ParseLanguages(sectionText string) []string {
	var languages []string

	for _, token := range skillDelimiters.Split(sectionText, -1) {
		token = strings.TrimSpace(proficiencyRe.ReplaceAllString(strings.TrimSpace(token), ""))
		if token == "" || len(token) > maxSkillLength {
			continue
		}
		languages = append(languages, token)
	}

	return dedupeFold(languages)
}

// ParseAchievements extracts one achievement per non-empty line.
func ParseAchievements(sectionText string) []string {
	var achievements []string

	for _, line := range nonEmptyLines(sectionText) {
		line = stripBullet(line)
		if line != "" {
			achievements = append(achievements, line)
		}
	}

	return achievements
}
