package menu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Row
	}{
		{
			name:  "standard",
			input: "item,ingredients\nPad Thai,\"rice noodles, peanuts, egg\"\nSalad,\"lettuce, tomato\"\n",
			want: []Row{
				{Item: "Pad Thai", Ingredients: []string{"rice noodles", "peanuts", "egg"}},
				{Item: "Salad", Ingredients: []string{"lettuce", "tomato"}},
			},
		},
		{
			name:  "whitespace is trimmed",
			input: "item,ingredients\n  Soup  ,\"  water ,  salt  ,, \"\n",
			want: []Row{
				{Item: "Soup", Ingredients: []string{"water", "salt"}},
			},
		},
		{
			name:  "columns in any order and case",
			input: "Ingredients,ITEM\n\"milk, sugar\",Pudding\n",
			want: []Row{
				{Item: "Pudding", Ingredients: []string{"milk", "sugar"}},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffitem,ingredients\nToast,bread\n",
			want: []Row{
				{Item: "Toast", Ingredients: []string{"bread"}},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []Row{},
		},
		{
			name:  "header only",
			input: "item,ingredients\n",
			want:  []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rows, err := ParseCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name,contents\nSoup,water\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestSplitIngredients(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitIngredients(" a ,, b c ,"))
	assert.Equal(t, []string{}, SplitIngredients(""))
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	dishes := []Dish{
		{ID: 1, Item: "Pad Thai", Ingredients: "rice noodles, peanuts"},
		{ID: 2, Item: "Salad", Ingredients: "lettuce"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, dishes))
	assert.True(t, strings.HasPrefix(buf.String(), "id,item,ingredients\n"))

	rows, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pad Thai", rows[0].Item)
	assert.Equal(t, []string{"rice noodles", "peanuts"}, rows[0].Ingredients)
	assert.Equal(t, "rice noodles, peanuts", rows[0].Dish().Ingredients)
}

func TestValidateFiles(t *testing.T) {
	assert.NoError(t, ValidateMenuFile("menu.CSV"))
	assert.NoError(t, ValidateMenuFile("menu.txt"))
	assert.Error(t, ValidateMenuFile("menu.xlsx"))
	assert.Error(t, ValidateMenuFile("menu"))

	assert.NoError(t, ValidateImageFile("scan.JPG"))
	assert.NoError(t, ValidateImageFile("scan.pdf"))
	assert.Error(t, ValidateImageFile("scan.csv"))
}
