package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/repotext/pkg/types"
)

// writeFixture creates the README/logo/.env layout used across command tests.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"README.md":       "# Project\nSome words here.",
		"assets/logo.png": "\x89PNG\r\n",
		".env":            "SECRET=hunter2",
		"src/main.go":     "package main\n\nfunc main() {}\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// isolateEnv points configuration at test-local locations.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REPOTEXT_WORKDIR", t.TempDir())
	t.Setenv("REPOTEXT_BUDGET", "")
	t.Setenv("REPOTEXT_HISTORY", "")
	t.Setenv("REPOTEXT_BINARY_EXTENSIONS", "")
	t.Setenv("REPOTEXT_RESPECT_GITIGNORE", "")
	t.Setenv("REPOTEXT_CLONE_DEPTH", "")
	t.Setenv("PORT", "")
	quiet = true
	t.Cleanup(func() { quiet = false })
}

func TestRunExtract_JSON(t *testing.T) {
	isolateEnv(t)
	dir := writeFixture(t)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runExtract(cmd, []string{dir}))

	var result types.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	assert.Equal(t, []types.NameEntry{
		{Name: "README.md"},
		{Name: "assets", Children: []types.NameEntry{{Name: "logo.png"}}},
		{Name: "src", Children: []types.NameEntry{{Name: "main.go"}}},
	}, result.FileNames)
	assert.Equal(t, []types.Entry{
		types.TextEntry("README.md", "# Project\nSome words here."),
		types.DirEntry("assets", []types.Entry{types.BinaryEntry("logo.png")}),
		types.DirEntry("src", []types.Entry{types.TextEntry("main.go", "package main\n\nfunc main() {}\n")}),
	}, result.FileContentArray)
}

func TestRunExtract_BudgetFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("REPOTEXT_BUDGET", "20")
	dir := writeFixture(t)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runExtract(cmd, []string{dir}))

	var result types.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "# Project\n...", result.FileContentArray[0].Content)
}

func TestRunExtract_FlagOverridesOutOfRangeEnvBudget(t *testing.T) {
	isolateEnv(t)
	t.Setenv("REPOTEXT_BUDGET", "0")
	dir := writeFixture(t)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.Flags().IntVar(&extractBudget, "budget", 0, "")
	t.Cleanup(func() { extractBudget = 0 })
	require.NoError(t, cmd.Flags().Set("budget", "20"))

	require.NoError(t, runExtract(cmd, []string{dir}))

	var result types.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "# Project\n...", result.FileContentArray[0].Content)
}

func TestRunExtract_OutOfRangeEnvBudget(t *testing.T) {
	isolateEnv(t)
	t.Setenv("REPOTEXT_BUDGET", "0")

	err := runExtract(&cobra.Command{}, []string{writeFixture(t)})
	assert.Error(t, err)
}

func TestRunExtract_NamesFormat(t *testing.T) {
	isolateEnv(t)
	dir := writeFixture(t)
	extractFormat = formatNames
	t.Cleanup(func() { extractFormat = formatJSON })

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runExtract(cmd, []string{dir}))
	assert.Contains(t, buf.String(), `"fileNames"`)
	assert.NotContains(t, buf.String(), `"fileContentArray"`)
	assert.NotContains(t, buf.String(), "Some words")
}

func TestRunExtract_BadFormat(t *testing.T) {
	isolateEnv(t)
	extractFormat = "xml"
	t.Cleanup(func() { extractFormat = formatJSON })

	err := runExtract(&cobra.Command{}, []string{t.TempDir()})
	assert.Error(t, err)
}

func TestRunExtract_MissingDirectory(t *testing.T) {
	isolateEnv(t)

	err := runExtract(&cobra.Command{}, []string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestRunExtract_UnreadableExtensionList(t *testing.T) {
	isolateEnv(t)
	t.Setenv("REPOTEXT_BINARY_EXTENSIONS", filepath.Join(t.TempDir(), "missing.json"))
	dir := writeFixture(t)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runExtract(cmd, []string{dir}))

	var result types.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	// every file is binary when the list cannot be loaded
	assert.Equal(t, types.BinaryEntry("README.md"), result.FileContentArray[0])
}

func TestExtractCommand_Exists(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"extract"})
	assert.NoError(t, err)
	assert.Equal(t, "extract", cmd.Name())
}
