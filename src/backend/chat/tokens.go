package chat

import (
	"errors"
	"strings"
)

// TokenCounter measures prompt length for the history budget
type TokenCounter interface {
	CountTokens(text string) int
}

// ErrTokenizerUnavailable is returned when a tokenizer file is configured but
// the binary was built without the tokenizers tag
var ErrTokenizerUnavailable = errors.New("tokenizer support not compiled in (build with -tags tokenizers)")

// WhitespaceCounter approximates tokens as whitespace-separated words
type WhitespaceCounter struct{}

func (WhitespaceCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}
