// Package allergy decides which menu items are unsafe for a diner's
// allergens.
//
// Matching is whole-word and case-insensitive: each user token is expanded
// through the allergen taxonomy and a dish is flagged when any expanded term
// is one of the words in its ingredient list. "egg" never matches "Veggie".
package allergy

import (
	"errors"
	"strings"
	"unicode"

	"ingrediguard/internal/allergen"
)

// ErrNoAllergens means the allergen text held no usable tokens.
var ErrNoAllergens = errors.New("no valid allergens supplied")

// Matcher runs the filter against one taxonomy. It holds no mutable state.
type Matcher struct {
	tax *allergen.Taxonomy
}

func NewMatcher(tax *allergen.Taxonomy) *Matcher {
	if tax == nil {
		tax = allergen.Default()
	}
	return &Matcher{tax: tax}
}

var defaultMatcher = NewMatcher(allergen.Default())

// Filter runs the default matcher.
func Filter(items []MenuItem, allergenText string) ([]Result, error) {
	return defaultMatcher.Filter(items, allergenText)
}

// Taxonomy returns the taxonomy the matcher expands tokens with.
func (m *Matcher) Taxonomy() *allergen.Taxonomy {
	return m.tax
}

// Filter returns one Result per item, in input order. It fails only with
// ErrNoAllergens.
func (m *Matcher) Filter(items []MenuItem, allergenText string) ([]Result, error) {
	return m.filterTokens(items, Tokenize(allergenText))
}

// filterTokens runs the filter over already tokenized allergen text.
func (m *Matcher) filterTokens(items []MenuItem, tokens []string) ([]Result, error) {
	if len(tokens) == 0 {
		return nil, ErrNoAllergens
	}

	expanded := make([][]string, len(tokens))
	for i, tok := range tokens {
		expanded[i] = m.tax.Expand(tok)
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		phrases := item.Ingredients.Phrases()
		words := vocabulary(phrases)

		offending := make([]string, 0)
		for i, tok := range tokens {
			for _, term := range expanded[i] {
				// Multi-word terms never equal a single word and so never match.
				if _, ok := words[term]; ok {
					offending = append(offending, tok)
					break
				}
			}
		}

		results = append(results, Result{
			Name:        item.Name,
			Ingredients: strings.Join(phrases, ", "),
			Offending:   offending,
			IsSafe:      len(offending) == 0,
		})
	}

	return results, nil
}

// Tokenize splits allergen text on runs of commas and whitespace and returns
// the distinct lower-cased tokens in first-seen order.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(f)
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// vocabulary is the set of lower-cased words across all phrases. Anything
// other than an ASCII letter, digit or space separates words.
func vocabulary(phrases []string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, p := range phrases {
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
				return r
			default:
				return ' '
			}
		}, strings.ToLower(p))

		for _, w := range strings.Fields(cleaned) {
			words[w] = struct{}{}
		}
	}
	return words
}
