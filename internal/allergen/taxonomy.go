// Package allergen holds the allergen taxonomy: canonical allergen categories,
// the ingredient terms that belong to each, and the reverse index from any
// term back to its category.
//
// A Taxonomy is immutable once built and safe for concurrent use.
package allergen

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTable []byte

// SuggestThreshold is the minimum similarity a known term needs before
// Suggest offers it for an unrecognized token.
const SuggestThreshold = 0.75

var (
	ErrEmptyTaxonomy = errors.New("taxonomy has no categories")
	ErrInvalidEntry  = errors.New("invalid taxonomy entry")
)

// Category is one canonical allergen and its trigger terms.
type Category struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

type table struct {
	Categories []Category `yaml:"categories"`
}

// Taxonomy maps categories to terms and terms back to categories.
type Taxonomy struct {
	order    []string
	terms    map[string][]string
	reverse  map[string]string
	vocabSet []string
}

var defaultTaxonomy = mustLoadDefault()

func mustLoadDefault() *Taxonomy {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("allergen: embedded taxonomy: %v", err))
	}
	return t
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return defaultTaxonomy
}

// Load reads a YAML taxonomy of the form
//
//	categories:
//	  - name: milk
//	    terms: [milk, butter, cheese]
func Load(r io.Reader) (*Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse builds a Taxonomy from YAML bytes.
func Parse(data []byte) (*Taxonomy, error) {
	var tbl table
	if err := yaml.Unmarshal(data, &tbl); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	return New(tbl.Categories)
}

// New builds a Taxonomy from categories. Names and terms are lower-cased and
// trimmed. A term listed under several categories is owned by the last one.
func New(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	t := &Taxonomy{
		terms:   make(map[string][]string, len(categories)),
		reverse: make(map[string]string),
	}

	for _, c := range categories {
		name := normalize(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category without a name", ErrInvalidEntry)
		}
		if _, dup := t.terms[name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidEntry, name)
		}

		seen := make(map[string]struct{}, len(c.Terms))
		terms := make([]string, 0, len(c.Terms))
		for _, raw := range c.Terms {
			term := normalize(raw)
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
		if len(terms) == 0 {
			return nil, fmt.Errorf("%w: category %q has no terms", ErrInvalidEntry, name)
		}

		t.order = append(t.order, name)
		t.terms[name] = terms
		for _, term := range terms {
			t.reverse[term] = name
		}
	}

	known := make(map[string]struct{}, len(t.order)+len(t.reverse))
	for _, name := range t.order {
		known[name] = struct{}{}
		t.vocabSet = append(t.vocabSet, name)
	}
	for _, name := range t.order {
		for _, term := range t.terms[name] {
			if _, ok := known[term]; ok {
				continue
			}
			known[term] = struct{}{}
			t.vocabSet = append(t.vocabSet, term)
		}
	}

	return t, nil
}

// Expand returns every term a user-supplied allergen should match.
//
// A category name yields its terms. A known term yields the full term list of
// its category, so "cheese" expands to everything under milk. Anything else
// is searched for literally.
func (t *Taxonomy) Expand(term string) []string {
	key := strings.ToLower(term)

	if terms, ok := t.terms[key]; ok {
		return clone(terms)
	}
	if parent, ok := t.reverse[key]; ok {
		return clone(t.terms[parent])
	}
	return []string{key}
}

// Category returns the category owning term.
func (t *Taxonomy) Category(term string) (string, bool) {
	c, ok := t.reverse[strings.ToLower(term)]
	return c, ok
}

// Known reports whether term is a category name or a listed term.
func (t *Taxonomy) Known(term string) bool {
	key := strings.ToLower(term)
	if _, ok := t.terms[key]; ok {
		return true
	}
	_, ok := t.reverse[key]
	return ok
}

// Categories returns category names in table order.
func (t *Taxonomy) Categories() []string {
	return clone(t.order)
}

// Terms returns the terms of a category, or nil if it is unknown.
func (t *Taxonomy) Terms(category string) []string {
	terms, ok := t.terms[strings.ToLower(category)]
	if !ok {
		return nil
	}
	return clone(terms)
}

// Suggest finds the known category or term closest to an unrecognized token.
// It returns false for tokens the taxonomy already knows and for tokens with
// no candidate at or above SuggestThreshold.
func (t *Taxonomy) Suggest(term string) (string, float64, bool) {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" || t.Known(key) {
		return "", 0, false
	}

	best := ""
	bestScore := -1.0
	for _, candidate := range t.vocabSet {
		if score := similarity(key, candidate); score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if bestScore < SuggestThreshold {
		return "", 0, false
	}
	return best, bestScore, true
}

// similarity is 1 - distance/max(len(a), len(b)) over runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
