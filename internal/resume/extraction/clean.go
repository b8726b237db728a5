package extraction

import (
	"regexp"
	"strings"
)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// cleanExtracted strips control characters and replacement runes that PDF
// decoding leaves behind, trims trailing whitespace per line, and bounds
// blank-line runs at one. Line breaks are preserved: the section
// segmenter needs them.
func cleanExtracted(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r == '�' || (r < 0x20 && r != '\n' && r != '\t') {
			continue
		}
		sb.WriteRune(r)
	}

	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
