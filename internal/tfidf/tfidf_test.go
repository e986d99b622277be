package tfidf

import (
	"math"
	"reflect"
	"slices"
	"testing"
)

var animalDocs = []string{
	"the quick brown fox jumps over the lazy dog",
	"the brown dog runs quickly",
	"a fox and a dog are animals",
}

func TestNewCorpus(t *testing.T) {
	tests := []struct {
		name      string
		documents []string
		wantDocs  int
	}{
		{
			name:      "empty corpus",
			documents: []string{},
			wantDocs:  0,
		},
		{
			name:      "nil documents",
			documents: nil,
			wantDocs:  0,
		},
		{
			name:      "single document",
			documents: []string{"hello world"},
			wantDocs:  1,
		},
		{
			name:      "multiple documents",
			documents: []string{"hello world", "goodbye world", "hello goodbye"},
			wantDocs:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := NewCorpus(tt.documents)
			if len(corpus.Documents) != tt.wantDocs {
				t.Errorf("NewCorpus() document count = %d, want %d", len(corpus.Documents), tt.wantDocs)
			}
			if corpus.Len() != tt.wantDocs {
				t.Errorf("NewCorpus() Len() = %d, want %d", corpus.Len(), tt.wantDocs)
			}
			if len(corpus.TermCounts) != tt.wantDocs {
				t.Errorf("NewCorpus() term count slots = %d, want %d", len(corpus.TermCounts), tt.wantDocs)
			}
		})
	}
}

func TestNewCorpusCopiesInput(t *testing.T) {
	docs := []string{"organic honey", "coffee beans"}
	corpus := NewCorpus(docs)
	docs[0] = "leather wallet"

	if corpus.Documents[0] != "organic honey" {
		t.Errorf("corpus document changed with input slice: %q", corpus.Documents[0])
	}
	if corpus.Weight("leather", 0) != 0 {
		t.Error("mutating input after build should not affect weights")
	}
}

func TestDocumentFrequencies(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	want := map[string]int{"the": 2, "brown": 2, "dog": 3, "fox": 2, "quick": 1, "a": 1}
	for term, df := range want {
		if got := corpus.DocFrequencies[term]; got != df {
			t.Errorf("DocFrequencies[%q] = %d, want %d", term, got, df)
		}
	}

	if got := corpus.TermCounts[0]["the"]; got != 2 {
		t.Errorf("TermCounts[0][the] = %d, want 2", got)
	}
	if got := corpus.TermCounts[2]["a"]; got != 2 {
		t.Errorf("TermCounts[2][a] = %d, want 2", got)
	}
}

func TestCorpusIDF(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	tests := []struct {
		term string
		want float64
	}{
		{"quick", 1 + math.Log(3.0/2.0)},
		{"brown", 1.0},
		{"dog", 1 + math.Log(3.0/4.0)},
		{"elephant", 1 + math.Log(3.0)},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := corpus.IDF(tt.term); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("IDF(%q) = %f, want %f", tt.term, got, tt.want)
			}
		})
	}

	// a term in every document still weighs more than zero
	if corpus.IDF("dog") <= 0 {
		t.Errorf("IDF of ubiquitous term should stay positive, got %f", corpus.IDF("dog"))
	}

	if got := NewCorpus(nil).IDF("dog"); got != 0 {
		t.Errorf("IDF on empty corpus = %f, want 0", got)
	}
}

func TestCorpusWeight(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	tests := []struct {
		name     string
		term     string
		docIndex int
		want     float64
	}{
		{name: "repeated term", term: "the", docIndex: 0, want: 2.0},
		{name: "case insensitive lookup", term: "THE", docIndex: 0, want: 2.0},
		{name: "rare term", term: "quick", docIndex: 0, want: 1 + math.Log(1.5)},
		{name: "absent term", term: "elephant", docIndex: 0, want: 0},
		{name: "term absent from this document", term: "quick", docIndex: 1, want: 0},
		{name: "negative index", term: "the", docIndex: -1, want: 0},
		{name: "index past end", term: "the", docIndex: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := corpus.Weight(tt.term, tt.docIndex); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Weight(%q, %d) = %f, want %f", tt.term, tt.docIndex, got, tt.want)
			}
		})
	}
}

func TestCorpusScore(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	tests := []struct {
		name     string
		query    string
		docIndex int
		wantZero bool // true if we expect score to be 0
	}{
		{
			name:     "valid query and document",
			query:    "brown fox",
			docIndex: 0,
			wantZero: false,
		},
		{
			name:     "query with no matches",
			query:    "elephant",
			docIndex: 0,
			wantZero: true,
		},
		{
			name:     "empty query",
			query:    "",
			docIndex: 0,
			wantZero: true,
		},
		{
			name:     "punctuation only query",
			query:    "?!,.",
			docIndex: 0,
			wantZero: true,
		},
		{
			name:     "invalid document index",
			query:    "brown",
			docIndex: 10,
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := corpus.Score(tt.query, tt.docIndex)
			if tt.wantZero && score != 0 {
				t.Errorf("Score() = %f, want 0", score)
			}
			if !tt.wantZero && score == 0 {
				t.Errorf("Score() = 0, want non-zero")
			}
		})
	}
}

func TestCorpusScoreSumsQueryTokens(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	single := corpus.Score("brown", 1)
	double := corpus.Score("brown brown", 1)
	if math.Abs(double-2*single) > 1e-10 {
		t.Errorf("Score(brown brown) = %f, want %f", double, 2*single)
	}

	combined := corpus.Score("Brown, FOX!", 0)
	want := corpus.Weight("brown", 0) + corpus.Weight("fox", 0)
	if math.Abs(combined-want) > 1e-10 {
		t.Errorf("Score(Brown, FOX!) = %f, want %f", combined, want)
	}
}

func TestCorpusTerms(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	terms := corpus.Terms(0)
	got := make([]string, len(terms))
	for i, tw := range terms {
		got[i] = tw.Term
	}

	// ties at the same weight fall back to term order
	want := []string{"the", "jumps", "lazy", "over", "quick", "brown", "fox", "dog"}
	if !slices.Equal(got, want) {
		t.Errorf("Terms(0) = %v, want %v", got, want)
	}

	for i := 1; i < len(terms); i++ {
		if terms[i].TFIDF > terms[i-1].TFIDF {
			t.Errorf("Terms(0) not sorted at %d: %f > %f", i, terms[i].TFIDF, terms[i-1].TFIDF)
		}
	}

	if terms[0].TF != 2 {
		t.Errorf("Terms(0)[0].TF = %d, want 2", terms[0].TF)
	}
	if math.Abs(terms[0].TFIDF-float64(terms[0].TF)*terms[0].IDF) > 1e-10 {
		t.Errorf("TFIDF should equal TF*IDF, got %+v", terms[0])
	}

	if corpus.Terms(99) != nil {
		t.Error("Terms() for invalid index should be nil")
	}
}

func TestCorpusTopTerms(t *testing.T) {
	corpus := NewCorpus(animalDocs)

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "cutoff", n: 3, want: 3},
		{name: "zero means all", n: 0, want: 8},
		{name: "negative means all", n: -1, want: 8},
		{name: "cutoff above term count", n: 50, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := corpus.TopTerms(0, tt.n); len(got) != tt.want {
				t.Errorf("TopTerms(0, %d) returned %d terms, want %d", tt.n, len(got), tt.want)
			}
		})
	}
}

func TestCorpusDeterminism(t *testing.T) {
	first := NewCorpus(animalDocs)
	second := NewCorpus(animalDocs)

	for i := range animalDocs {
		if !reflect.DeepEqual(first.Terms(i), second.Terms(i)) {
			t.Errorf("Terms(%d) differ between identical builds", i)
		}
		if first.Score("dog fox", i) != second.Score("dog fox", i) {
			t.Errorf("Score differs between identical builds for doc %d", i)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty string",
			text: "",
			want: []string{},
		},
		{
			name: "simple words",
			text: "hello world",
			want: []string{"hello", "world"},
		},
		{
			name: "words with punctuation",
			text: "hello, world!",
			want: []string{"hello", "world"},
		},
		{
			name: "mixed case",
			text: "Hello World",
			want: []string{"hello", "world"},
		},
		{
			name: "underscores kept, dashes split",
			text: "test_123 hello-world",
			want: []string{"test_123", "hello", "world"},
		},
		{
			name: "short words kept",
			text: "a big cat in the house",
			want: []string{"a", "big", "cat", "in", "the", "house"},
		},
		{
			name: "multiple spaces and newlines",
			text: "hello   world\n\ntest",
			want: []string{"hello", "world", "test"},
		},
		{
			name: "unicode letters",
			text: "Café Crème",
			want: []string{"café", "crème"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestProseTokenizer(t *testing.T) {
	got := ProseTokenizer{}.Tokenize("Organic honey, pure & golden.")

	for _, want := range []string{"organic", "honey", "pure", "golden"} {
		if !slices.Contains(got, want) {
			t.Errorf("ProseTokenizer missing %q in %v", want, got)
		}
	}
	for _, punct := range []string{",", "&", "."} {
		if slices.Contains(got, punct) {
			t.Errorf("ProseTokenizer kept punctuation %q in %v", punct, got)
		}
	}

	if got := (ProseTokenizer{}).Tokenize("   "); len(got) != 0 {
		t.Errorf("ProseTokenizer on blank text = %v, want empty", got)
	}
}

func TestWithTokenizer(t *testing.T) {
	corpus := NewCorpus([]string{"Organic honey, pure & golden."}, WithTokenizer(ProseTokenizer{}))
	if corpus.Weight("honey", 0) == 0 {
		t.Error("prose-tokenized corpus should index honey")
	}

	// nil keeps the default tokenizer
	corpus = NewCorpus([]string{"dark-roast beans"}, WithTokenizer(nil))
	if corpus.Weight("roast", 0) == 0 {
		t.Error("nil tokenizer option should fall back to word tokenizer")
	}
}

func TestWithStemming(t *testing.T) {
	docs := []string{"roasted coffee beans", "dark roast"}

	plain := NewCorpus(docs)
	if plain.Score("roasting", 0) != 0 {
		t.Error("unstemmed corpus should not match roasting against roasted")
	}

	stemmed := NewCorpus(docs, WithStemming())
	if stemmed.Score("roasting", 0) == 0 {
		t.Error("stemmed corpus should match roasting against roasted")
	}
	if stemmed.DocFrequencies["roast"] != 2 {
		t.Errorf("stemmed DocFrequencies[roast] = %d, want 2", stemmed.DocFrequencies["roast"])
	}
}

func TestWeightUsesAnalyzer(t *testing.T) {
	corpus := NewCorpus([]string{"dark roasted beans", "green tea"}, WithStemming())

	roasted := corpus.Weight("roasted", 0)
	if roasted == 0 {
		t.Fatal("Weight(roasted) on a stemmed corpus should match the stemmed document term")
	}
	if got := corpus.Weight("roast", 0); got != roasted {
		t.Errorf("Weight(roast) = %f, want %f", got, roasted)
	}
	if got := corpus.Weight("  Roasting ", 0); got != roasted {
		t.Errorf("Weight(Roasting) = %f, want %f", got, roasted)
	}
	if got := corpus.Score("roasted", 0); got != roasted {
		t.Errorf("Score(roasted) = %f, want Weight(roasted) %f", got, roasted)
	}

	stopped := NewCorpus([]string{"the golden honey"}, WithStopwords("the"))
	if got := stopped.Weight("the", 0); got != 0 {
		t.Errorf("Weight(stopword) = %f, want 0", got)
	}
	if got := stopped.Weight("", 0); got != 0 {
		t.Errorf("Weight(empty) = %f, want 0", got)
	}
}

func TestWithStopwords(t *testing.T) {
	corpus := NewCorpus([]string{"the golden honey", "the dark beans"}, WithStopwords(EnglishStopwords...))

	if corpus.Score("the", 0) != 0 {
		t.Error("stopword query should score zero")
	}
	for _, tw := range corpus.Terms(0) {
		if tw.Term == "the" {
			t.Error("stopword should not be listed as a document term")
		}
	}
	if corpus.Score("The Honey", 0) == 0 {
		t.Error("non-stopword query token should still score")
	}
}
