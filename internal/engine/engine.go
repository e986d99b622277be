// Package engine ranks catalog records with a TF-IDF corpus built fresh for every call.
//
// Two operations share one corpus-construction step:
//   - Search scores every record against a free-text query
//   - Recommend finds records that share highly weighted vocabulary with an anchor record
//
// Records are any caller type implementing Record; results are the caller's own
// values, so fields the engine does not know about ride along untouched.
//
// There is no shared state between calls. Each call rebuilds the corpus from the
// snapshot it is given, which is correct but grows linearly with catalog size.
package engine

import (
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/chriscorrea/marketsift/internal/tfidf"
)

const (
	// DefaultSearchLimit is used when Search is called with a limit <= 0.
	DefaultSearchLimit = 10
	// DefaultRecommendLimit is used when Recommend is called with a limit <= 0.
	DefaultRecommendLimit = 4
)

// Record is the capability set the engine needs from a product.
type Record interface {
	GetID() string
	GetTitle() string
	GetCategory() string
	GetDescription() string
}

// Result is a ranked record with its relevance score and position in the input.
type Result[R Record] struct {
	Record R
	Score  float64
	Index  int
}

type options struct {
	corpusOpts []tfidf.Option
	topTerms   int
	document   func(Record) string
}

// Option configures a Search or Recommend call.
type Option func(*options)

// WithCorpusOptions passes analyzer options (tokenizer, stemming, stopwords) to the corpus.
func WithCorpusOptions(opts ...tfidf.Option) Option {
	return func(o *options) {
		o.corpusOpts = append(o.corpusOpts, opts...)
	}
}

// WithTopTerms limits the anchor vocabulary used by Recommend to its n highest
// weighted terms. n <= 0 uses every term of the anchor document.
func WithTopTerms(n int) Option {
	return func(o *options) {
		o.topTerms = n
	}
}

// WithDocumentFunc replaces Document as the record-to-text mapping.
func WithDocumentFunc(fn func(Record) string) Option {
	return func(o *options) {
		if fn != nil {
			o.document = fn
		}
	}
}

func newOptions(opts []Option) options {
	o := options{document: Document}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Document joins title, category and description with single spaces.
// A nil record yields an empty document.
func Document(r Record) string {
	if isNil(r) {
		return ""
	}
	return r.GetTitle() + " " + r.GetCategory() + " " + r.GetDescription()
}

// BuildCorpus builds a corpus index-aligned with records.
func BuildCorpus[R Record](records []R, opts ...Option) *tfidf.Corpus {
	o := newOptions(opts)
	return buildCorpus(records, o)
}

func buildCorpus[R Record](records []R, o options) *tfidf.Corpus {
	docs := make([]string, len(records))
	for i, r := range records {
		if isNil(r) {
			continue
		}
		docs[i] = o.document(r)
	}
	return tfidf.NewCorpus(docs, o.corpusOpts...)
}

// Search returns up to limit records ranked by relevance to query, best first.
// Records scoring zero are not matches. An empty result means nothing in the
// catalog shares vocabulary with the query.
func Search[R Record](query string, records []R, limit int, opts ...Option) []R {
	return recordsOf(SearchScored(query, records, limit, opts...))
}

// SearchScored is Search with scores and input positions.
func SearchScored[R Record](query string, records []R, limit int, opts ...Option) []Result[R] {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if strings.TrimSpace(query) == "" || len(records) == 0 {
		return []Result[R]{}
	}

	o := newOptions(opts)
	corpus := buildCorpus(records, o)

	terms := corpus.Analyze(query)
	if len(terms) == 0 {
		slog.Debug("Query has no searchable tokens", "query", query)
		return []Result[R]{}
	}

	results := make([]Result[R], 0)
	for i, r := range records {
		score := corpus.ScoreTerms(terms, i)
		if score <= 0 {
			continue
		}
		results = append(results, Result[R]{Record: r, Score: score, Index: i})
	}

	slog.Debug("Search scored", "query", query, "records", len(records), "matches", len(results), "limit", limit)
	return rank(results, limit)
}

// Recommend returns up to limit records most similar to anchor, excluding anchor.
//
// The anchor is located in records by GetID equality. Similarity is the sum of
// the anchor's term weights as they appear in each candidate document: it measures
// how much of the anchor's vocabulary a candidate carries and is not symmetric.
// Candidates with no shared vocabulary stay eligible with a score of zero.
func Recommend[R Record](anchor R, records []R, limit int, opts ...Option) []R {
	return recordsOf(RecommendScored(anchor, records, limit, opts...))
}

// RecommendScored is Recommend with scores and input positions.
func RecommendScored[R Record](anchor R, records []R, limit int, opts ...Option) []Result[R] {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	if isNil(anchor) || len(records) == 0 {
		return []Result[R]{}
	}

	anchorIdx := IndexOf(records, anchor.GetID())
	if anchorIdx < 0 {
		slog.Debug("Anchor not found in catalog", "id", anchor.GetID(), "records", len(records))
		return []Result[R]{}
	}

	o := newOptions(opts)
	corpus := buildCorpus(records, o)

	top := corpus.TopTerms(anchorIdx, o.topTerms)
	terms := make([]string, len(top))
	for i, tw := range top {
		terms[i] = tw.Term
	}

	results := make([]Result[R], 0, len(records)-1)
	for i, r := range records {
		if i == anchorIdx || isNil(r) {
			continue
		}
		results = append(results, Result[R]{Record: r, Score: corpus.ScoreTerms(terms, i), Index: i})
	}

	slog.Debug("Recommendations scored", "anchor", anchor.GetID(), "anchorTerms", len(terms), "candidates", len(results), "limit", limit)
	return rank(results, limit)
}

// IndexOf returns the position of the first record whose id equals id, or -1.
// An empty id never matches.
func IndexOf[R Record](records []R, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range records {
		if !isNil(r) && r.GetID() == id {
			return i
		}
	}
	return -1
}

// rank sorts by score descending, keeping input order for ties, and truncates.
func rank[R Record](results []Result[R], limit int) []Result[R] {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func recordsOf[R Record](results []Result[R]) []R {
	out := make([]R, len(results))
	for i, res := range results {
		out[i] = res.Record
	}
	return out
}

// isNil reports whether r is a nil interface or a typed nil pointer, map or similar.
func isNil(r Record) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
