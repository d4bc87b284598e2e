package ocr

import (
	"regexp"
	"strings"
)

var (
	pageNoiseLines = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^page\s*\d+(\s*of\s*\d+)?$`), // "Page 1", "Page 2 of 3"
		regexp.MustCompile(`^\d+\s*/\s*\d+$`),                // "1/5"
		regexp.MustCompile(`(?i)^menu$`),                     // repeated headers
		regexp.MustCompile(`^[$€£₹]?\s*\d+([.,]\d+)?$`),      // bare numbers and prices
	}
	innerSpace = regexp.MustCompile(`[ \t]+`)
)

// CleanText strips OCR noise before the text is turned into menu rows:
// page markers, bare numbers, replacement characters and runs of spaces.
func CleanText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\uFFFD", "")
	raw = strings.ReplaceAll(raw, "\f", "\n")

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
		if line == "" || isNoise(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isNoise(line string) bool {
	for _, p := range pageNoiseLines {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
