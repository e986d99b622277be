package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/chriscorrea/marketsift/internal/fetch"
)

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")

// idNamespace seeds generated product ids, so reloading the same catalog yields the same ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chriscorrea/marketsift/product"))

// Load reads a JSON catalog from a file path, an http(s) URL or "-" for stdin.
func Load(ctx context.Context, source string) ([]Product, error) {
	reader, err := fetch.Open(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer reader.Close()

	products, err := Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %q: %w", source, err)
	}

	slog.Debug("Catalog loaded", "source", source, "kind", fetch.Kind(source), "products", len(products))
	return products, nil
}

// Decode reads either a JSON array of products or an object with a "products" array.
// Products without an id are given a deterministic one and missing slugs are derived
// from the title.
func Decode(r io.Reader) ([]Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Product{}, nil
	}

	var products []Product
	if data[0] == '{' {
		var wrapper struct {
			Products []Product `json:"products"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		products = wrapper.Products
	} else if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}

	if products == nil {
		products = []Product{}
	}
	for i := range products {
		normalize(&products[i], i)
	}
	return products, nil
}

// normalize fills in generated ids and slugs.
func normalize(p *Product, position int) {
	if p.Slug == "" {
		p.Slug = Slug(p.Title)
	}
	if p.ID == "" {
		p.ID = uuid.NewSHA1(idNamespace, []byte(strconv.Itoa(position)+"\x00"+p.Slug)).String()
	}
}

// Slug lowercases a title and replaces spaces with dashes.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}

// FindByID returns the first product with the given id.
func FindByID(products []Product, id string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// FilterCategory keeps products whose category name equals name exactly.
// An empty name keeps everything; an unknown category yields an empty list.
func FilterCategory(products []Product, name string) []Product {
	name = strings.TrimSpace(name)
	if name == "" {
		return products
	}

	filtered := make([]Product, 0)
	for _, p := range products {
		if p.Category == name {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// MatchTitle keeps products whose title contains keyword, ignoring case.
// The keyword is matched literally.
func MatchTitle(products []Product, keyword string) []Product {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return products
	}

	matched := make([]Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), keyword) {
			matched = append(matched, p)
		}
	}
	return matched
}
