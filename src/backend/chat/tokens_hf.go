//go:build tokenizers

package chat

import (
	"fmt"

	"github.com/daulet/tokenizers"
)

// HFTokenCounter counts tokens with a HuggingFace tokenizer.json
type HFTokenCounter struct {
	tk *tokenizers.Tokenizer
}

// NewTokenCounter loads the tokenizer at tokenizerPath, or returns the
// whitespace counter when no path is configured
func NewTokenCounter(tokenizerPath string) (TokenCounter, error) {
	if tokenizerPath == "" {
		return WhitespaceCounter{}, nil
	}
	tk, err := tokenizers.FromFile(tokenizerPath)
	if err != nil {
		return WhitespaceCounter{}, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return &HFTokenCounter{tk: tk}, nil
}

func (c *HFTokenCounter) CountTokens(text string) int {
	encoding := c.tk.EncodeWithOptions(text, false)
	return len(encoding.IDs)
}

// Close releases the native tokenizer
func (c *HFTokenCounter) Close() error {
	return c.tk.Close()
}
