package extraction

import (
	"bytes"
	"regexp"
	"strings"
)

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// decodeContentStream parses PDF content-stream text operators.
// With layout=true, positioning operators (Td, TD) become line breaks,
// which preserves the visual line structure résumé parsing depends on;
// with layout=false they become single spaces.
func decodeContentStream(data []byte, layout bool) string {
	var sb strings.Builder

	writeBreak := func() {
		if sb.Len() == 0 {
			return
		}
		if layout {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		// Tj / TJ operators: (text) Tj, [(text) -100 (more)] TJ
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}

		// ' operator: move to next line and show text
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(decodePDFString(m[1]))
			}

		// Td / TD operators: text positioning
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			writeBreak()

		// T* operator: move to start of next line
		case bytes.Equal(line, []byte("T*")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		}
	}

	return strings.TrimSpace(sb.String())
}

// decodePDFString handles basic PDF escape sequences, including octal
// escapes like \040.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}
