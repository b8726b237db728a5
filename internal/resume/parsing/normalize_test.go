package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "crlf to lf",
			input: "line one\r\nline two\r\n",
			want:  "line one\nline two",
		},
		{
			name:  "bullet variants unified",
			input: "◦ first\n▪ second\n● third",
			want:  "• first\n• second\n• third",
		},
		{
			name:  "asterisk list marker at line start",
			input: "* built the thing\n* shipped the thing",
			want:  "• built the thing\n• shipped the thing",
		},
		{
			name:  "asterisk inside a line untouched",
			input: "rated 5* by users",
			want:  "rated 5* by users",
		},
		{
			name:  "ocr digit substitutions fixed",
			input: "EXPER1ENCE\nEducati0n\nsk1lls",
			want:  "EXPERIENCE\nEducation\nskills",
		},
		{
			name:  "horizontal whitespace collapsed",
			input: "Senior   Engineer\t\tAcme Corp",
			want:  "Senior Engineer Acme Corp",
		},
		{
			name:  "blank line boundaries preserved",
			input: "entry one\n\n\n\nentry two",
			want:  "entry one\n\nentry two",
		},
		{
			name:  "empty input",
			input: "   \n\t\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"EXPER1ENCE\r\n◦ shipped   things\n\n\n* more things",
		"plain text already clean",
		"",
		"Skills: Go, Python\n\nEducation\nMIT",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestMatchCase(t *testing.T) {
	assert.Equal(t, "EXPERIENCE", matchCase("EXPER1ENCE", "experience"))
	assert.Equal(t, "Experience", matchCase("Exper1ence", "experience"))
	assert.Equal(t, "experience", matchCase("exper1ence", "experience"))
}
