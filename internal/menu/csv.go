package menu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCSV reads a menu CSV with a header row naming "item" and
// "ingredients" columns (any order, any case). Ingredients are split on
// commas and trimmed; empty phrases are dropped. Empty or header-only input
// yields an empty slice.
func ParseCSV(src io.Reader) ([]Row, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidCSV, err)
	}

	itemCol, ingredientsCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "item":
			itemCol = i
		case "ingredients":
			ingredientsCol = i
		}
	}

	rows := []Row{}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCSV, line, err)
		}
		if itemCol < 0 || ingredientsCol < 0 {
			return nil, ErrMissingColumns
		}

		rows = append(rows, Row{
			Item:        strings.TrimSpace(field(rec, itemCol)),
			Ingredients: SplitIngredients(field(rec, ingredientsCol)),
		})
	}

	return rows, nil
}

// SplitIngredients splits a comma-joined ingredient string into trimmed,
// non-empty phrases.
func SplitIngredients(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WriteCSV writes dishes with an id,item,ingredients header.
func WriteCSV(w io.Writer, dishes []Dish) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "item", "ingredients"}); err != nil {
		return err
	}
	for _, d := range dishes {
		if err := cw.Write([]string{strconv.FormatInt(d.ID, 10), d.Item, d.Ingredients}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
