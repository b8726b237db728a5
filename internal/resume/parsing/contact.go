package parsing

import (
	"regexp"
	"strings"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// phonePatterns are tried in order; the first match wins.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+\d{1,3}[-. ]?\(?\d{2,4}\)?[-. ]?\d{3}[-. ]?\d{3,4}`),
	regexp.MustCompile(`\(\d{3}\)[ ]?\d{3}[-. ]?\d{4}`),
	regexp.MustCompile(`\d{3}[-. ]\d{3}[-. ]\d{4}`),
	regexp.MustCompile(`\b\d{10}\b`),
}

var (
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_\-]+)`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/([A-Za-z0-9_\-]+)`)
	websiteRe  = regexp.MustCompile(`(?i)https?://[^\s,;]+`)
	addressRe  = regexp.MustCompile(`[A-Za-z .]+,\s*[A-Z]{2}\s+\d{5}`)
	digitsRe   = regexp.MustCompile(`^\d+$`)
)

// ParseContact extracts contact fields from the contact section, or
// from the whole document when no contact section was found. Every
// field keeps the first plausible match; later matches never overwrite.
// Malformed input yields empty fields, never an error.
func ParseContact(sectionText, fullText string) domain.ContactInfo {
	var c domain.ContactInfo

	scan := sectionText
	if strings.TrimSpace(scan) == "" {
		scan = fullText
	}

	fillContact(&c, scan)

	// Contact details often sit outside any recognized section (page
	// header), so fall back to the whole document for missing fields.
	if scan != fullText {
		fillContact(&c, fullText)
	}

	return c
}

func fillContact(c *domain.ContactInfo, text string) {
	if c.Email == "" {
		c.Email = emailRe.FindString(text)
	}

	if c.Phone == "" {
		for _, re := range phonePatterns {
			if m := re.FindString(text); m != "" {
				c.Phone = normalizePhone(m)
				break
			}
		}
	}

	if c.LinkedIn == "" {
		if m := linkedinRe.FindStringSubmatch(text); m != nil {
			c.LinkedIn = m[1]
		}
	}

	if c.GitHub == "" {
		if m := githubRe.FindStringSubmatch(text); m != nil {
			c.GitHub = m[1]
		}
	}

	if c.Website == "" {
		for _, m := range websiteRe.FindAllString(text, -1) {
			lower := strings.ToLower(m)
			if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
				continue
			}
			c.Website = strings.TrimRight(m, ".,;)")
			break
		}
	}

	if c.Address == "" {
		c.Address = strings.TrimSpace(addressRe.FindString(text))
	}

	if c.Name == "" {
		c.Name = guessName(text)
	}
}

// normalizePhone prefixes a country code when the match is digits-only
// and of the expected national length.
func normalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if digitsRe.MatchString(trimmed) && len(trimmed) == 10 {
		return "+1" + trimmed
	}
	return trimmed
}

// guessName returns the first non-numeric, multi-word line. Lines that
// look like contact details or headings are skipped.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "@:/•") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		plausible := true
		for _, w := range words {
			if digitsRe.MatchString(w) {
				plausible = false
				break
			}
		}
		if plausible {
			return line
		}
	}
	return ""
}
