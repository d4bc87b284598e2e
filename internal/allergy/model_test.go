package allergy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuItemJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{name: "comma-joined string", body: `{"item":"Pizza","ingredients":"Dough, Cheese"}`, want: []string{"Dough", "Cheese"}},
		{name: "list", body: `{"item":"Pizza","ingredients":["Dough","Tomato Sauce"]}`, want: []string{"Dough", "Tomato Sauce"}},
		{name: "missing field is empty", body: `{"item":"Water"}`, want: []string{""}},
		{name: "null is empty", body: `{"item":"Water","ingredients":null}`, want: []string{""}},
		{name: "number is rejected", body: `{"item":"Water","ingredients":42}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var item MenuItem
			err := json.Unmarshal([]byte(tc.body), &item)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, item.Ingredients.Phrases())
		})
	}
}

func TestIngredientsMarshalKeepsForm(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(IngredientList("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))

	b, err = json.Marshal(IngredientText("a, b"))
	require.NoError(t, err)
	assert.JSONEq(t, `"a, b"`, string(b))
}

func TestIngredientsString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Beef, Bun", IngredientText(" Beef ,Bun").String())
	assert.Equal(t, "", Ingredients{}.String())
}
