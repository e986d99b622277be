// Package app contains the marketsift application logic: loading a catalog,
// running searches and recommendations, and applying caller policy such as the
// category filter and the title-match fallback. It is separate from CLI concerns.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chriscorrea/marketsift/internal/catalog"
	"github.com/chriscorrea/marketsift/internal/counter"
	"github.com/chriscorrea/marketsift/internal/engine"
	"github.com/chriscorrea/marketsift/internal/extract"
	"github.com/chriscorrea/marketsift/internal/fetch"
	"github.com/chriscorrea/marketsift/internal/spinner"
	"github.com/chriscorrea/marketsift/internal/tfidf"
)

// OutputFormat defines the output format for results
type OutputFormat int

const (
	// markdown output format (default)
	Markdown OutputFormat = iota
	// plaintext output format
	Text
	// JSON output format
	JSON
)

// String returns the string representation of the output
func (f OutputFormat) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// Path records which strategy produced a listing.
type Path string

const (
	// PathTFIDF means results came from the ranking engine
	PathTFIDF Path = "tfidf"
	// PathTitleMatch means the engine found nothing and titles were matched instead
	PathTitleMatch Path = "title-match"
	// PathAll means no query was given and the catalog is listed as is
	PathAll Path = "all"
	// PathRecommend means results are recommendations for an anchor product
	PathRecommend Path = "recommend"
)

// Config holds all configuration options for the marketsift application.
type Config struct {
	Catalog      string // file path, http(s) URL or "-" for stdin
	Query        string
	ProductID    string // anchor for recommendations
	Category     string // exact category name to keep; empty keeps all
	Limit        int    // <= 0 uses the engine default
	TopTerms     int    // anchor terms used for recommendations; <= 0 uses all
	Stem         bool
	Stopwords    []string // dropped from documents and queries before weighting
	StripHTML    bool     // strip markup from descriptions before indexing
	OutputFormat OutputFormat
	SnippetUnits counter.CountingMethod
	SnippetLimit int // description snippet size in SnippetUnits; <= 0 shows the full description
	ShowScores   bool
	Quiet        bool // suppress progress output
}

// Item is one product in a listing.
type Item struct {
	Product catalog.Product
	Score   float64
	Scored  bool // false for listings that were not ranked
}

// Listing is the outcome of a search or recommendation.
type Listing struct {
	Query  string
	Anchor *catalog.Product
	Path   Path
	Items  []Item
}

// Search loads the catalog and ranks it against cfg.Query.
//
// The engine always ranks the full catalog; the category filter is applied to
// its results afterwards. When nothing survives, products whose title contains
// the query are listed instead. An empty query lists the filtered catalog.
func Search(ctx context.Context, cfg Config) (Listing, error) {
	products, err := loadCatalog(ctx, cfg)
	if err != nil {
		return Listing{}, err
	}

	query := strings.TrimSpace(cfg.Query)
	listing := Listing{Query: query}

	if query == "" {
		listing.Path = PathAll
		listing.Items = unscored(catalog.FilterCategory(products, cfg.Category))
		return listing, nil
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = engine.DefaultSearchLimit
	}

	// category must be filtered before truncating to the limit
	results := engine.SearchScored(query, products, len(products), engineOptions(cfg)...)
	category := strings.TrimSpace(cfg.Category)
	items := make([]Item, 0, min(len(results), limit))
	for _, res := range results {
		if len(items) == limit {
			break
		}
		if category != "" && res.Record.Category != category {
			continue
		}
		items = append(items, Item{Product: res.Record, Score: res.Score, Scored: true})
	}

	if len(items) > 0 {
		listing.Path = PathTFIDF
		listing.Items = items
		return listing, nil
	}

	matched := catalog.MatchTitle(catalog.FilterCategory(products, cfg.Category), query)
	if cfg.Limit > 0 && len(matched) > cfg.Limit {
		matched = matched[:cfg.Limit]
	}
	slog.Debug("No ranked matches, falling back to title match", "query", query, "matches", len(matched))

	listing.Path = PathTitleMatch
	listing.Items = unscored(matched)
	return listing, nil
}

// Recommend loads the catalog and lists products similar to cfg.ProductID.
// An unknown id returns an error wrapping catalog.ErrNotFound.
func Recommend(ctx context.Context, cfg Config) (Listing, error) {
	products, err := loadCatalog(ctx, cfg)
	if err != nil {
		return Listing{}, err
	}

	anchor, err := catalog.FindByID(products, strings.TrimSpace(cfg.ProductID))
	if err != nil {
		return Listing{}, fmt.Errorf("failed to recommend: %w", err)
	}

	results := engine.RecommendScored(anchor, products, cfg.Limit, engineOptions(cfg)...)
	items := make([]Item, len(results))
	for i, res := range results {
		items[i] = Item{Product: res.Record, Score: res.Score, Scored: true}
	}

	return Listing{Anchor: &anchor, Path: PathRecommend, Items: items}, nil
}

// loadCatalog reads the configured catalog, showing a spinner for remote sources.
func loadCatalog(ctx context.Context, cfg Config) ([]catalog.Product, error) {
	source := strings.TrimSpace(cfg.Catalog)
	if source == "" {
		return nil, fmt.Errorf("no catalog provided")
	}

	var sp *spinner.Spinner
	if !cfg.Quiet && fetch.Kind(source) == fetch.URL {
		sp = spinner.ForTerminal(os.Stderr, "Loading catalog...")
	}
	sp.Start(ctx)
	products, err := catalog.Load(ctx, source)
	sp.Stop()

	return products, err
}

// engineOptions maps configuration onto engine options.
func engineOptions(cfg Config) []engine.Option {
	var opts []engine.Option
	if len(cfg.Stopwords) > 0 {
		opts = append(opts, engine.WithCorpusOptions(tfidf.WithStopwords(cfg.Stopwords...)))
	}
	if cfg.Stem {
		opts = append(opts, engine.WithCorpusOptions(tfidf.WithStemming()))
	}
	if cfg.TopTerms > 0 {
		opts = append(opts, engine.WithTopTerms(cfg.TopTerms))
	}
	if cfg.StripHTML {
		opts = append(opts, engine.WithDocumentFunc(func(r engine.Record) string {
			return r.GetTitle() + " " + r.GetCategory() + " " + extract.PlainText(r.GetDescription())
		}))
	}
	return opts
}

func unscored(products []catalog.Product) []Item {
	items := make([]Item, len(products))
	for i, p := range products {
		items[i] = Item{Product: p}
	}
	return items
}
