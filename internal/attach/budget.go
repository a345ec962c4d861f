package attach

import "strings"

// TruncationNote ends a report cut to fit the token budget.
const TruncationNote = "[report truncated]"

// EstimateTokens gives a rough token count from the word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 0.75 words per token for English text.
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// Truncate cuts text to at most budget estimated tokens on a word boundary,
// appending TruncationNote when anything was dropped. A budget of zero or
// less disables truncation.
func Truncate(text string, budget int) string {
	if budget <= 0 || EstimateTokens(text) <= budget {
		return text
	}
	maxWords := int(float64(budget) / 1.33)
	if maxWords < 1 {
		maxWords = 1
	}

	// Walk word starts so the kept prefix preserves original line breaks.
	words := 0
	inWord := false
	for i, r := range text {
		space := r == ' ' || r == '\n' || r == '\t' || r == '\r'
		if !space && !inWord {
			if words == maxWords {
				return strings.TrimSpace(text[:i]) + "\n" + TruncationNote
			}
			words++
		}
		inWord = !space
	}
	return text
}
