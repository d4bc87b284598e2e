package ocr

import (
	"bytes"
	"encoding/csv"
	"strings"
)

var csvHeader = []string{"item", "ingredients"}

// TextToCSV turns OCR text into an item,ingredients CSV document.
//
// Blank lines are skipped. A first line mentioning "item" or "ingredients"
// is taken as a header and replaced with the canonical one. Every other line
// splits at its first '-', or failing that its first ':', into item and
// ingredients; a line with neither becomes an item with no ingredients.
func TextToCSV(text string) (string, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return "", ErrNoText
	}

	first := strings.ToLower(lines[0])
	if strings.Contains(first, "item") || strings.Contains(first, "ingredients") {
		lines = lines[1:]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, l := range lines {
		item, ingredients := splitLine(l)
		if err := w.Write([]string{item, ingredients}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func splitLine(line string) (string, string) {
	for _, sep := range []string{"-", ":"} {
		if item, rest, ok := strings.Cut(line, sep); ok {
			return strings.TrimSpace(item), strings.TrimSpace(rest)
		}
	}
	return line, ""
}
