package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chriscorrea/marketsift/internal/catalog"
	"github.com/chriscorrea/marketsift/internal/counter"
	"github.com/chriscorrea/marketsift/internal/extract"
)

const ellipsis = "…"

// Render formats a listing in cfg.OutputFormat.
func Render(listing Listing, cfg Config) (string, error) {
	switch cfg.OutputFormat {
	case JSON:
		return renderJSON(listing)
	case Text:
		return renderText(listing, cfg)
	default:
		return renderMarkdown(listing, cfg)
	}
}

type jsonItem struct {
	Product catalog.Product `json:"product"`
	Score   *float64        `json:"score,omitempty"`
}

type jsonListing struct {
	Query   string           `json:"query,omitempty"`
	Anchor  *catalog.Product `json:"anchor,omitempty"`
	Path    Path             `json:"path"`
	Count   int              `json:"count"`
	Results []jsonItem       `json:"results"`
}

// renderJSON always includes scores for ranked items; products are written in full.
func renderJSON(listing Listing) (string, error) {
	out := jsonListing{
		Query:   listing.Query,
		Anchor:  listing.Anchor,
		Path:    listing.Path,
		Count:   len(listing.Items),
		Results: make([]jsonItem, len(listing.Items)),
	}
	for i, item := range listing.Items {
		out.Results[i] = jsonItem{Product: item.Product}
		if item.Scored {
			score := item.Score
			out.Results[i].Score = &score
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	return string(data) + "\n", nil
}

func renderMarkdown(listing Listing, cfg Config) (string, error) {
	snip, err := newSnipper(cfg)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# " + heading(listing) + "\n\n")
	if listing.Path == PathTitleMatch {
		b.WriteString("_No ranked matches; showing products whose title contains the query._\n\n")
	}
	if len(listing.Items) == 0 {
		b.WriteString("No products found.\n")
		return b.String(), nil
	}

	for i, item := range listing.Items {
		p := item.Product
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, p.Title)
		fmt.Fprintf(&b, "- **ID:** `%s`\n", p.ID)
		if p.Category != "" {
			fmt.Fprintf(&b, "- **Category:** %s\n", p.Category)
		}
		if p.Vendor != "" {
			fmt.Fprintf(&b, "- **Vendor:** %s\n", p.Vendor)
		}
		fmt.Fprintf(&b, "- **Price:** %s\n", formatPrice(p.Price))
		if cfg.ShowScores && item.Scored {
			fmt.Fprintf(&b, "- **Score:** %s\n", formatScore(item.Score))
		}

		if strings.TrimSpace(p.Description) != "" {
			description, err := extract.Markdown(p.Description)
			if err != nil {
				description = extract.PlainText(p.Description)
			}
			if description = snip(description); description != "" {
				b.WriteString("\n" + description + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func renderText(listing Listing, cfg Config) (string, error) {
	snip, err := newSnipper(cfg)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(heading(listing) + "\n")
	if listing.Path == PathTitleMatch {
		b.WriteString("(no ranked matches; showing title matches)\n")
	}
	b.WriteString("\n")
	if len(listing.Items) == 0 {
		b.WriteString("No products found.\n")
		return b.String(), nil
	}

	for i, item := range listing.Items {
		p := item.Product
		fmt.Fprintf(&b, "%d. %s", i+1, p.Title)
		if p.Category != "" {
			fmt.Fprintf(&b, " [%s]", p.Category)
		}
		fmt.Fprintf(&b, " %s\n", formatPrice(p.Price))
		fmt.Fprintf(&b, "   id: %s\n", p.ID)
		if cfg.ShowScores && item.Scored {
			fmt.Fprintf(&b, "   score: %s\n", formatScore(item.Score))
		}
		if description := snip(extract.PlainText(p.Description)); description != "" {
			fmt.Fprintf(&b, "   %s\n", description)
		}
	}
	return b.String(), nil
}

func heading(listing Listing) string {
	switch listing.Path {
	case PathRecommend:
		if listing.Anchor != nil {
			return fmt.Sprintf("Recommendations for %q", listing.Anchor.Title)
		}
		return "Recommendations"
	case PathAll:
		return "All products"
	default:
		return fmt.Sprintf("Search results for %q", listing.Query)
	}
}

// newSnipper returns a function that truncates descriptions to the configured
// snippet size, marking cut text with an ellipsis.
func newSnipper(cfg Config) (func(string) string, error) {
	if cfg.SnippetLimit <= 0 {
		return strings.TrimSpace, nil
	}

	c, err := counter.NewCounter(cfg.SnippetUnits)
	if err != nil {
		return nil, fmt.Errorf("failed to create snippet counter: %w", err)
	}

	return func(text string) string {
		text = strings.TrimSpace(text)
		if c.Count(text) <= cfg.SnippetLimit {
			return text
		}
		return strings.TrimSpace(c.Truncate(text, cfg.SnippetLimit)) + ellipsis
	}, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}
