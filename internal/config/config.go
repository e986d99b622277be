// Package config reads optional marketsift defaults from a TOML file.
//
// Values here sit below environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is read from the working directory when no path is given.
const DefaultPath = "marketsift.toml"

// File holds defaults for the CLI. Zero values mean "not set".
type File struct {
	Catalog   string   `toml:"catalog"`
	Limit     int      `toml:"limit"`
	TopTerms  int      `toml:"top_terms"`
	Stem      bool     `toml:"stem"`
	StripHTML bool     `toml:"strip_html"`
	Stopwords []string `toml:"stopwords"`
	Format    string   `toml:"format"` // md, text or json
	Scores    bool     `toml:"scores"`
}

// Load reads path, or DefaultPath when path is empty. A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return File{}, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	slog.Debug("Config loaded", "path", path)
	return cfg, nil
}

// Parse decodes TOML defaults. Unknown keys and unknown formats are errors.
func Parse(r io.Reader) (File, error) {
	var cfg File
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return File{}, err
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "", "md", "markdown", "text", "txt", "json":
	default:
		return File{}, fmt.Errorf("unknown format %q", cfg.Format)
	}
	return cfg, nil
}
