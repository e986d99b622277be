package tfidf

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"
)

// Tokenizer splits text into lowercase tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer splits on every rune that is not a letter, digit or underscore.
// This is the default tokenizer.
type WordTokenizer struct{}

// Tokenize lowercases text and breaks it on punctuation and whitespace.
func (WordTokenizer) Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// ProseTokenizer uses prose's rule-based tokenizer, which keeps contractions and
// abbreviations together better than plain splitting. Pure punctuation tokens are dropped.
type ProseTokenizer struct{}

// Tokenize runs prose with tagging, segmentation and entity extraction disabled.
func (ProseTokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		slog.Debug("prose tokenization failed, using word tokenizer", "error", err)
		return WordTokenizer{}.Tokenize(text)
	}

	tokens := make([]string, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if strings.IndexFunc(word, isWordRune) < 0 {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Tokenize breaks text into tokens with the default WordTokenizer.
func Tokenize(text string) []string {
	return WordTokenizer{}.Tokenize(text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Option configures how a Corpus analyzes text.
type Option func(*analyzer)

// WithTokenizer replaces the default WordTokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(a *analyzer) {
		if t != nil {
			a.tokenizer = t
		}
	}
}

// WithStemming reduces tokens to their English snowball stem,
// so "roasted" and "roast" index as the same term.
func WithStemming() Option {
	return func(a *analyzer) {
		a.stem = true
	}
}

// WithStopwords drops the given words before indexing and querying.
func WithStopwords(words ...string) Option {
	return func(a *analyzer) {
		if a.stopwords == nil {
			a.stopwords = make(map[string]struct{}, len(words))
		}
		for _, w := range words {
			a.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// EnglishStopwords is a small list of function words for use with WithStopwords.
var EnglishStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "in", "is",
	"it", "of", "on", "or", "that", "the", "this", "to", "with",
}

// analyzer turns text into index terms: tokenize, drop stopwords, optionally stem.
type analyzer struct {
	tokenizer Tokenizer
	stopwords map[string]struct{}
	stem      bool
}

func newAnalyzer(opts []Option) analyzer {
	a := analyzer{tokenizer: WordTokenizer{}}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// term normalizes a single lookup token the way analyze treats document tokens.
// It reports false for empty tokens and stopwords.
func (a analyzer) term(token string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", false
	}
	if _, skip := a.stopwords[token]; skip {
		return "", false
	}
	if a.stem {
		if stemmed, err := snowball.Stem(token, "english", true); err == nil && stemmed != "" {
			token = stemmed
		}
	}
	return token, true
}

func (a analyzer) analyze(text string) []string {
	tokens := a.tokenizer.Tokenize(text)
	if len(a.stopwords) == 0 && !a.stem {
		return tokens
	}

	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, skip := a.stopwords[token]; skip {
			continue
		}
		if a.stem {
			stemmed, err := snowball.Stem(token, "english", true)
			if err == nil && stemmed != "" {
				token = stemmed
			}
		}
		terms = append(terms, token)
	}
	return terms
}
