package llm

import "strings"

// EstimateTokens gives a rough token count at about 1.33 tokens per word.
// It only feeds logs; prompts are never truncated.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
