package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingrediguard/internal/allergy"
)

const sampleMenu = "item,ingredients\n" +
	"Pad Thai,\"rice noodles, peanuts, egg\"\n" +
	"Veggie Burger,\"bun, lettuce, tomato\"\n" +
	"Cheese Pizza,\"flour, cheese, tomato\"\n"

// isolate points the CLI at a fresh SQLite file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_ENV", "production")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("TAXONOMY_PATH", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "cli.db"))
	return dir
}

func writeMenu(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "menu.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleMenu), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ingrediguard v1.1.1-beta\n", out)
}

func TestAllergensCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "allergens")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 15)
	assert.True(t, strings.HasPrefix(lines[0], "peanut: peanut, peanuts"))
}

func TestCheckMenuFile(t *testing.T) {
	dir := isolate(t)
	path := writeMenu(t, dir)

	out, err := run(t, "check", "--menu", path, "--json", "egg,", "milk")
	require.NoError(t, err)

	var report allergy.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 3)
	assert.Equal(t, []string{"egg"}, report.Results[0].Offending)
	assert.True(t, report.Results[1].IsSafe, "egg must not match Veggie")
	assert.Equal(t, []string{"milk"}, report.Results[2].Offending)
}

func TestCheckTableAndSuggestion(t *testing.T) {
	dir := isolate(t)
	path := writeMenu(t, dir)

	out, err := run(t, "check", "--menu", path, "--unsafe", "peanutt")
	require.NoError(t, err)
	assert.Contains(t, out, "ITEM")
	assert.NotContains(t, out, "Pad Thai")
	assert.Contains(t, out, `did you mean "peanut"`)
}

func TestCheckWithoutAllergens(t *testing.T) {
	dir := isolate(t)
	path := writeMenu(t, dir)

	_, err := run(t, "check", "--menu", path, " , ")
	assert.EqualError(t, err, "please enter at least one allergen")
}

func TestImportExportAndCheckStoredMenu(t *testing.T) {
	dir := isolate(t)
	path := writeMenu(t, dir)

	out, err := run(t, "import", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, "3 rows would be imported\n", out)

	out, err = run(t, "import", path)
	require.NoError(t, err)
	assert.Equal(t, "imported 3 dishes\n", out)

	out, err = run(t, "import", "--replace", path)
	require.NoError(t, err)
	assert.Equal(t, "imported 3 dishes\n", out)

	out, err = run(t, "export")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,item,ingredients", lines[0])
	assert.Contains(t, lines[1], `Pad Thai,"rice noodles, peanuts, egg"`)

	out, err = run(t, "check", "peanut")
	require.NoError(t, err)
	assert.Contains(t, out, "UNSAFE")
}

func TestImportRejectsExtension(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "menu.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := run(t, "import", path)
	assert.ErrorContains(t, err, "file type not allowed")
}

func TestUsersCommands(t *testing.T) {
	isolate(t)

	out, err := run(t, "users", "add", "chef", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "created chef")
	assert.Contains(t, out, "STAFF")

	_, err = run(t, "users", "add", "chef", "--password", "other")
	assert.Error(t, err)

	out, err = run(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "chef")

	_, err = run(t, "users", "reset")
	assert.ErrorContains(t, err, "--yes")

	_, err = run(t, "users", "reset", "--yes")
	require.NoError(t, err)
	out, err = run(t, "users", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "chef")
}
