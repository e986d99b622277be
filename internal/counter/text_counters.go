package counter

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// WordCounter counts words using whitespace splitting.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of whitespace separated words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Truncate keeps the first max words, joined by single spaces.
func (wc WordCounter) Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	slog.Debug("Truncating by words", "words", len(words), "max", max)
	return strings.Join(words[:max], " ")
}

// Name returns the name of this counting method.
func (WordCounter) Name() string {
	return "words"
}

// CharCounter counts Unicode characters (runes), not bytes.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of runes in text.
func (CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate keeps the first max runes.
func (CharCounter) Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimRightFunc(string(runes[:max]), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n'
	})
}

// Name returns the name of this counting method.
func (CharCounter) Name() string {
	return "characters"
}
