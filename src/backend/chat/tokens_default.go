//go:build !tokenizers

package chat

// NewTokenCounter returns the whitespace counter. A configured tokenizer path
// yields ErrTokenizerUnavailable alongside the usable fallback counter.
func NewTokenCounter(tokenizerPath string) (TokenCounter, error) {
	if tokenizerPath != "" {
		return WhitespaceCounter{}, ErrTokenizerUnavailable
	}
	return WhitespaceCounter{}, nil
}
