package allergy

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// MenuItem is one dish handed to the filter.
type MenuItem struct {
	Name        string      `json:"item"`
	Ingredients Ingredients `json:"ingredients"`
}

// Result is the verdict for one MenuItem.
// IsSafe is true exactly when Offending is empty.
type Result struct {
	Name        string   `json:"item"`
	Ingredients string   `json:"ingredients"`
	Offending   []string `json:"offending"`
	IsSafe      bool     `json:"is_safe"`
}

// Ingredients is either a single comma-joined string or an already split
// list. The zero value is the empty string.
type Ingredients struct {
	text   string
	list   []string
	isList bool
}

// IngredientText wraps a comma-joined ingredient string.
func IngredientText(s string) Ingredients {
	return Ingredients{text: s}
}

// IngredientList wraps pre-split ingredient phrases.
func IngredientList(phrases ...string) Ingredients {
	list := make([]string, len(phrases))
	copy(list, phrases)
	return Ingredients{list: list, isList: true}
}

// Phrases returns the trimmed ingredient phrases in order.
func (i Ingredients) Phrases() []string {
	var raw []string
	if i.isList {
		raw = i.list
	} else {
		raw = strings.Split(i.text, ",")
	}

	out := make([]string, len(raw))
	for n, p := range raw {
		out[n] = strings.TrimSpace(p)
	}
	return out
}

// String is the canonical ", "-joined form.
func (i Ingredients) String() string {
	return strings.Join(i.Phrases(), ", ")
}

// UnmarshalJSON accepts a string, an array of strings, or null.
func (i *Ingredients) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*i = Ingredients{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*i = IngredientList(list...)
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = IngredientText(s)
		return nil
	}
	return errors.New("ingredients must be a string or a list of strings")
}

// MarshalJSON writes the form the value was built from.
func (i Ingredients) MarshalJSON() ([]byte, error) {
	if i.isList {
		return json.Marshal(i.list)
	}
	return json.Marshal(i.text)
}
