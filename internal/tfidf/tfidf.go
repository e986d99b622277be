// Package tfidf provides the TF-IDF (Term Frequency-Inverse Document Frequency) corpus
// used to rank catalog products.
//
// A Corpus is built from an ordered list of documents, one per product, and is
// index-aligned with that list. It pre-calculates raw term counts and document
// frequencies so that per-document term weights can be looked up cheaply.
//
// Weighting:
//   - Term Frequency (TF): raw number of occurrences of a term in a document
//   - Inverse Document Frequency (IDF): 1 + ln(N / (1 + df)), so rarer terms score higher
//
// Usage Example:
//
//	corpus := tfidf.NewCorpus(documents)
//	score := corpus.Score("golden honey", documentIndex)
//	terms := corpus.TopTerms(documentIndex, 10)
//
// A Corpus is never mutated after construction and is meant to be rebuilt per call
// from the current catalog snapshot.
package tfidf

import (
	"log/slog"
	"math"
	"slices"
	"sort"
)

// Corpus holds the docs and pre-calculated term statistics for efficient querying.
type Corpus struct {
	Documents      []string         // original documents, index aligned with the input
	TermCounts     []map[string]int // raw term counts for each document
	DocFrequencies map[string]int   // number of documents containing each term
	TotalDocuments int

	analyzer analyzer
}

// TermWeight is a term of one document together with its weighting components.
type TermWeight struct {
	Term  string
	TF    int
	IDF   float64
	TFIDF float64
}

// NewCorpus creates a new TF-IDF corpus from a collection of documents.
// The documents slice is copied; later changes to it do not affect the corpus.
func NewCorpus(documents []string, opts ...Option) *Corpus {
	corpus := &Corpus{
		Documents:      slices.Clone(documents),
		TermCounts:     make([]map[string]int, len(documents)),
		DocFrequencies: make(map[string]int),
		TotalDocuments: len(documents),
		analyzer:       newAnalyzer(opts),
	}

	if len(documents) == 0 {
		slog.Debug("Empty document collection provided")
		corpus.Documents = []string{}
		return corpus
	}

	for docIdx, doc := range corpus.Documents {
		counts := countTerms(corpus.analyzer.analyze(doc))
		corpus.TermCounts[docIdx] = counts

		// each distinct term counts once per document
		for term := range counts {
			corpus.DocFrequencies[term]++
		}
	}

	slog.Debug("TF-IDF corpus created", "documents", corpus.TotalDocuments, "totalTerms", len(corpus.DocFrequencies))
	return corpus
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int {
	return c.TotalDocuments
}

// Analyze runs text through the corpus analyzer, producing the tokens that
// documents were indexed with.
func (c *Corpus) Analyze(text string) []string {
	return c.analyzer.analyze(text)
}

// IDF returns the inverse document frequency of an analyzed term:
// 1 + ln(N / (1 + df)). Returns 0 for an empty corpus.
func (c *Corpus) IDF(term string) float64 {
	if c.TotalDocuments == 0 {
		return 0
	}
	df := c.DocFrequencies[term]
	return 1 + math.Log(float64(c.TotalDocuments)/float64(1+df))
}

// Weight returns the TF-IDF weight of a raw token in the document at docIndex.
// The token goes through the corpus analyzer first, so on a stemming corpus
// "roasted" weighs the same as "roast"; stopwords weigh zero. Terms absent from
// the document, and out-of-range indices, weigh zero.
func (c *Corpus) Weight(term string, docIndex int) float64 {
	term, ok := c.analyzer.term(term)
	if !ok {
		return 0
	}
	return c.weight(term, docIndex)
}

// weight looks up an already analyzed term.
func (c *Corpus) weight(term string, docIndex int) float64 {
	if docIndex < 0 || docIndex >= len(c.TermCounts) {
		return 0
	}
	tf := c.TermCounts[docIndex][term]
	if tf == 0 {
		return 0
	}
	return float64(tf) * c.IDF(term)
}

// Score calculates the TF-IDF relevance of a raw query against a specific document.
// The query is analyzed the same way as documents and the weights of its tokens are
// summed; a token repeated in the query contributes once per occurrence.
func (c *Corpus) Score(query string, docIndex int) float64 {
	if docIndex < 0 || docIndex >= len(c.TermCounts) {
		slog.Debug("Invalid document index", "docIndex", docIndex, "totalDocs", c.TotalDocuments)
		return 0
	}

	terms := c.analyzer.analyze(query)
	if len(terms) == 0 {
		slog.Debug("Empty query after tokenization")
		return 0
	}

	return c.ScoreTerms(terms, docIndex)
}

// ScoreTerms sums the weights of already analyzed terms against one document.
// Terms are looked up as given, without stemming them again.
func (c *Corpus) ScoreTerms(terms []string, docIndex int) float64 {
	var total float64
	for _, term := range terms {
		total += c.weight(term, docIndex)
	}
	return total
}

// Terms lists every term of the document at docIndex, highest TF-IDF first.
// Equal weights are ordered by term so the listing is deterministic.
func (c *Corpus) Terms(docIndex int) []TermWeight {
	if docIndex < 0 || docIndex >= len(c.TermCounts) {
		return nil
	}

	counts := c.TermCounts[docIndex]
	terms := make([]TermWeight, 0, len(counts))
	for term, tf := range counts {
		idf := c.IDF(term)
		terms = append(terms, TermWeight{
			Term:  term,
			TF:    tf,
			IDF:   idf,
			TFIDF: float64(tf) * idf,
		})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].TFIDF != terms[j].TFIDF {
			return terms[i].TFIDF > terms[j].TFIDF
		}
		return terms[i].Term < terms[j].Term
	})
	return terms
}

// TopTerms returns the n highest weighted terms of a document. n <= 0 returns all terms.
func (c *Corpus) TopTerms(docIndex int, n int) []TermWeight {
	terms := c.Terms(docIndex)
	if n > 0 && len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// countTerms computes raw per-term occurrence counts.
func countTerms(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
