package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGetExact(t *testing.T) {
	m := New()
	m.Add("fr", "Hello", "Bonjour")

	got, ok := m.GetExact("fr", "Hello")
	require.True(t, ok)
	assert.Equal(t, "Bonjour", got)

	_, ok = m.GetExact("fr", "Goodbye")
	assert.False(t, ok)
	_, ok = m.GetExact("de", "Hello")
	assert.False(t, ok)
}

func TestAddOverwritesSameOriginal(t *testing.T) {
	m := New()
	m.Add("fr", "Hello", "Salut")
	m.Add("fr", "Hello", "Bonjour")

	got, _ := m.GetExact("fr", "Hello")
	assert.Equal(t, "Bonjour", got)
	assert.Equal(t, 1, m.Count("fr"))
}

func TestExplicitIDsKeepDistinctEntries(t *testing.T) {
	m := New()
	m.AddEntry("fr", "menu_hello", "Hello", "Bonjour")
	m.AddEntry("fr", "dlg_hello", "Hello", "Salut")

	assert.Equal(t, 2, m.Count("fr"))

	// Flattening by original text is lossy: one pair survives.
	flat := m.Export()
	assert.Len(t, flat["fr"], 1)
}

func TestGetFuzzy(t *testing.T) {
	m := New()
	m.Add("fr", "Hello world", "Bonjour monde")

	got, score, ok := m.GetFuzzy("fr", "Helo world", 0.80)
	require.True(t, ok)
	assert.Equal(t, "Bonjour monde", got)
	assert.InDelta(t, 0.952, score, 0.01)

	_, _, ok = m.GetFuzzy("fr", "Helo world", 0.99)
	assert.False(t, ok)
	_, _, ok = m.GetFuzzy("fr", "unrelated text entirely", 0.80)
	assert.False(t, ok)
}

func TestGetOrSuggest(t *testing.T) {
	m := New()
	m.Add("fr", "Hello world", "Bonjour monde")

	got, confidence, source := m.GetOrSuggest("fr", "Hello world")
	assert.Equal(t, "Bonjour monde", got)
	assert.Equal(t, 1.0, confidence)
	assert.Equal(t, SourceExact, source)

	got, confidence, source = m.GetOrSuggest("fr", "Helo world")
	assert.Equal(t, "Bonjour monde", got)
	assert.Greater(t, confidence, 0.9)
	assert.Equal(t, SourceFuzzy, source)

	_, _, source = m.GetOrSuggest("fr", "nothing like it qqq")
	assert.Equal(t, SourceNone, source)
}

func TestExportImportRoundTrip(t *testing.T) {
	m := New()
	m.Add("fr", "Hello", "Bonjour")
	m.Add("de", "Hello", "Hallo")

	clone := New()
	clone.Import(m.Export())

	got, ok := clone.GetExact("fr", "Hello")
	require.True(t, ok)
	assert.Equal(t, "Bonjour", got)
	assert.Equal(t, []string{"de", "fr"}, clone.Languages())
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tm.json")

	m := New()
	m.Add("fr", "Quit", "Quitter")
	require.NoError(t, m.SaveFile(path))

	loaded := New()
	require.NoError(t, loaded.LoadFile(path))

	got, ok := loaded.GetExact("fr", "Quit")
	require.True(t, ok)
	assert.Equal(t, "Quitter", got)
}

func TestLoadFileMissing(t *testing.T) {
	m := New()
	assert.Error(t, m.LoadFile(filepath.Join(t.TempDir(), "absent.json")))
}
