package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagesGet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.yaml"), []byte("title: About Us\nstats:\n  guides: 85\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.json"), []byte(`{"hero": {"title": "Discover"}}`), 0o644))

	pages := NewPages(dir, "about", "home", "faq")
	assert.Equal(t, []string{"about", "home", "faq"}, pages.Names())

	about, err := pages.Get("about")
	require.NoError(t, err)
	assert.Equal(t, "About Us", about["title"])
	assert.Equal(t, map[string]any{"guides": 85}, about["stats"])

	home, err := pages.Get("home")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Discover"}, home["hero"])

	_, err = pages.Get("faq")
	assert.ErrorIs(t, err, ErrPageUnavailable)

	_, err = pages.Get("careers")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPagesBrokenDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.yaml"), []byte("title: [unclosed"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.yaml"), nil, 0o644))

	pages := NewPages(dir, "about", "home")

	_, err := pages.Get("about")
	assert.ErrorIs(t, err, ErrPageUnavailable)

	// an empty document is a valid, empty page
	home, err := pages.Get("home")
	require.NoError(t, err)
	assert.Empty(t, home)
}
