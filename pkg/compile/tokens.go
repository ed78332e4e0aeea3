package compile

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts the tokens of decoded file content. Implementations
// must be safe for concurrent use by ingestion workers.
type TokenCounter interface {
	Count(text string) int
}

// newTokenCounter resolves a Configuration.Tokenizer name. The default word
// counter is approximate by design; the tiktoken counter matches OpenAI
// model accounting for size budgeting.
func newTokenCounter(name string) (TokenCounter, error) {
	switch name {
	case "", TokenizerWords:
		return wordCounter{}, nil
	case TokenizerTiktoken:
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding: %w", err)
		}
		return &tiktokenCounter{enc: enc}, nil
	default:
		return nil, &ConfigError{Field: "tokenizer", Reason: fmt.Sprintf("unknown tokenizer %q", name)}
	}
}

// wordCounter counts whitespace-delimited tokens.
type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.EncodeOrdinary(text))
}
