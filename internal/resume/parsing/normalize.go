package parsing

import (
	"regexp"
	"strings"
)

// Bullet glyph variants unified to the canonical bullet.
const canonicalBullet = "•"

var bulletVariants = []string{"◦", "▪", "▫", "‣", "·", "●", "○", "■", "➤", "►"}

// asteriskBullet matches an asterisk used as a list marker at line start.
var asteriskBullet = regexp.MustCompile(`(?m)^\*[ \t]`)

// ocrFixes maps known recognition substitution errors (digit/letter
// confusions inside section-header words) back to their canonical
// spelling. Matching is case-insensitive; replacements follow the case
// of the matched text.
var ocrFixes = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)exper1ence`), "experience"},
	{regexp.MustCompile(`(?i)educati0n`), "education"},
	{regexp.MustCompile(`(?i)sk1lls`), "skills"},
	{regexp.MustCompile(`(?i)pr0jects`), "projects"},
	{regexp.MustCompile(`(?i)0bjective`), "objective"},
	{regexp.MustCompile(`(?i)certificati0ns`), "certifications"},
	{regexp.MustCompile(`(?i)emp1oyment`), "employment"},
}

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	multiBlank   = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw extracted text: horizontal whitespace runs
// collapse to single spaces, known recognition glyph errors are mapped
// back, and all bullet variants become the canonical bullet. Blank-line
// boundaries are preserved because entry splitting depends on them.
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	for _, v := range bulletVariants {
		text = strings.ReplaceAll(text, v, canonicalBullet)
	}
	text = asteriskBullet.ReplaceAllString(text, canonicalBullet+" ")

	for _, fix := range ocrFixes {
		text = fix.re.ReplaceAllStringFunc(text, func(m string) string {
			return matchCase(m, fix.canonical)
		})
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	text = multiBlank.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// matchCase renders the canonical word in the case style of the matched
// text: all-upper stays upper, leading-capital stays capitalized.
func matchCase(matched, canonical string) string {
	if matched == strings.ToUpper(matched) {
		return strings.ToUpper(canonical)
	}
	if len(matched) > 0 && matched[0] >= 'A' && matched[0] <= 'Z' {
		return strings.ToUpper(canonical[:1]) + canonical[1:]
	}
	return canonical
}
