package parsing

import (
	"regexp"
	"strings"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

// minEntryLength discards fragments left over from aggressive page
// breaks; anything shorter cannot be a real employment entry.
const minEntryLength = 50

var monthNames = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

// dateRangeRe matches "<month> <year> - <month> <year>" and
// "<month> <year> - Present/Current". Numeric MM/DD/YYYY ranges are a
// known gap and intentionally not recognized.
var dateRangeRe = regexp.MustCompile(
	`(?i)(` + monthNames + `\.?\s+\d{4})\s*(?:-|–|—|to)\s*(` + monthNames + `\.?\s+\d{4}|present|current)`)

// ParseExperience extracts ordered work-experience entries from the
// experience section. Entries split on blank-line boundaries; malformed
// entries degrade to partial records, never errors.
func ParseExperience(sectionText string) []domain.WorkExperience {
	var experiences []domain.WorkExperience

	for _, entry := range splitEntries(sectionText) {
		if len(entry) < minEntryLength {
			continue
		}

		lines := nonEmptyLines(entry)
		if len(lines) == 0 {
			continue
		}

		exp := parseExperienceHeader(lines[0])

		if m := dateRangeRe.FindStringSubmatch(entry); m != nil {
			exp.StartDate = strings.TrimSpace(m[1])
			exp.EndDate = strings.TrimSpace(m[2])
		}

		for _, line := range lines[1:] {
			line = stripBullet(line)
			if line == "" || dateRangeRe.MatchString(line) && len(line) < 40 {
				continue
			}
			exp.Description = append(exp.Description, line)
		}

		exp.Technologies = findTechnologies(entry)
		experiences = append(experiences, exp)
	}

	return experiences
}

// parseExperienceHeader resolves the entry's first line by trying
// delimiters in priority order: " at " means "position at company",
// " - " means "company - position", "|" means "position | company";
// otherwise the whole line is the company.
func parseExperienceHeader(header string) domain.WorkExperience {
	header = strings.TrimSpace(stripDates(header))

	if pos, company, ok := splitOnce(header, " at "); ok {
		return domain.WorkExperience{Position: pos, Company: company}
	}
	if company, pos, ok := splitOnce(header, " - "); ok {
		return domain.WorkExperience{Company: company, Position: pos}
	}
	if pos, company, ok := splitOnce(header, "|"); ok {
		return domain.WorkExperience{Position: pos, Company: company}
	}
	return domain.WorkExperience{Company: header}
}

// stripDates removes a trailing date range from a header line so it
// doesn't pollute the company or position.
func stripDates(line string) string {
	return strings.TrimRight(strings.TrimSpace(dateRangeRe.ReplaceAllString(line, "")), " ,-|–—")
}

func splitOnce(s, sep string) (string, string, bool) {
	idx := strings.Index(s, sep)
	if idx <= 0 {
		return "", "", false
	}
	left := strings.TrimSpace(s[:idx])
	right := strings.TrimSpace(s[idx+len(sep):])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// splitEntries breaks section text into entries on blank-line
// boundaries.
func splitEntries(text string) []string {
	var entries []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			entries = append(entries, block)
		}
	}
	return entries
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// stripBullet removes a leading bullet or dash list marker.
func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{canonicalBullet + " ", canonicalBullet, "- ", "– "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	return line
}
