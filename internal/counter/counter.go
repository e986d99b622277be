// Package counter measures and trims product description snippets.
//
// Snippets can be budgeted in words, characters or tokens. Token counting uses
// tiktoken's cl100k_base encoding, so a listing can be sized for an LLM prompt.
//
// Usage Example:
//
//	c, _ := counter.NewCounter(counter.Words)
//	snippet := c.Truncate(product.Description, 30)
package counter

import (
	"fmt"
	"strings"
)

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in text.
	Count(text string) int

	// Truncate returns the longest prefix of text holding at most max units.
	// max <= 0 returns text unchanged.
	Truncate(text string, max int) string

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Words counts whitespace separated words (default)
	Words CountingMethod = iota
	// Characters counts Unicode characters
	Characters
	// Tokens uses tiktoken with cl100k_base encoding
	Tokens
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseCountingMethod maps "words", "characters"/"chars" and "tokens" to a method.
func ParseCountingMethod(s string) (CountingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "words":
		return Words, nil
	case "characters", "chars":
		return Characters, nil
	case "tokens":
		return Tokens, nil
	default:
		return Words, fmt.Errorf("unknown counting method %q", s)
	}
}

// NewCounter creates a Counter for the given method.
// Returns an error if the tiktoken encoding cannot be loaded.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Tokens:
		return NewTokenCounter()
	case Characters:
		return NewCharCounter(), nil
	default:
		return NewWordCounter(), nil
	}
}
