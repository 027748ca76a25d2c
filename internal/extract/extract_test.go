package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"renloc/internal/scanner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTokensFiltersAndDeduplicates(t *testing.T) {
	src := "label start:\n" +
		"    \"Hello, world!\"\n" +
		"    \"Hello, world!\"\n" +
		"    \"42\"\n" +
		"    \"x\"\n" +
		"screen s:\n" +
		"    text \"Settings\"\n"

	entries := FromTokens(scanner.ScanString("script.rpy", src))
	require.Len(t, entries, 2)

	assert.Equal(t, "Hello, world!", entries[0].Text)
	assert.Equal(t, "dialogue", entries[0].Type)
	assert.Equal(t, 2, entries[0].Line)
	assert.NotEmpty(t, entries[0].ID)

	assert.Equal(t, "Settings", entries[1].Text)
	assert.Equal(t, "ui", entries[1].Type)
	assert.Equal(t, []string{"screen:s"}, entries[1].Context)
}

func TestEntryIDsAreStableAcrossVersions(t *testing.T) {
	a := FromTokens(scanner.ScanString("v1.rpy", "\"Same line\"\n"))
	b := FromTokens(scanner.ScanString("v2.rpy", "label l:\n    \"Same line\"\n"))
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].ID, b[0].ID)
}

func TestToMap(t *testing.T) {
	entries := []Entry{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
	}
	assert.Equal(t, map[string]string{"a": "one", "b": "two"}, ToMap(entries))
}

func TestCollectDir(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("game/a.rpy", "label a:\n    \"From file A\"\n    \"Shared line\"\n")
	write("game/b.rpy", "label b:\n    \"From file B\"\n    \"Shared line\"\n")
	write("renpy/skip.rpy", "label s:\n    \"Engine text\"\n")

	entries, err := CollectDir(context.Background(), root, ".rpy", []string{"renpy"}, 2)
	require.NoError(t, err)

	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	assert.ElementsMatch(t, []string{"From file A", "Shared line", "From file B"}, texts)
}
