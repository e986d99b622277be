package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
catalog = "https://shop.example.com/api/products"
limit = 5
top_terms = 8
stem = true
strip_html = true
stopwords = ["the", "and"]
format = "JSON"
scores = true
`))
	require.NoError(t, err)
	assert.Equal(t, File{
		Catalog:   "https://shop.example.com/api/products",
		Limit:     5,
		TopTerms:  8,
		Stem:      true,
		StripHTML: true,
		Stopwords: []string{"the", "and"},
		Format:    "json",
		Scores:    true,
	}, cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown key", input: `colour = "red"`},
		{name: "wrong type", input: `limit = "five"`},
		{name: "unknown format", input: `format = "yaml"`},
		{name: "invalid toml", input: `limit = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		require.NoError(t, os.WriteFile(path, []byte("limit = 3\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Limit)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open config")
	})

	t.Run("missing default file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, File{}, cfg)
	})

	t.Run("default file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPath), []byte("stem = true\n"), 0o600))
		t.Chdir(dir)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Stem)
	})

	t.Run("bad file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("limit = [\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})
}
