package chat

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// CountTokens counts prompt tokens with a GPT-compatible tokenizer.
// Falls back to a whitespace split if the encoding is unavailable, which
// keeps accounting approximate rather than fatal.
func CountTokens(text string) int {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return len(strings.Fields(text))
	}
	return len(enc.Encode(text, nil, nil))
}
