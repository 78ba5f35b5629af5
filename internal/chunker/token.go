package chunker

import (
	"bytes"
	"unicode"

	"github.com/clipperhouse/uax29/words"
)

// EstimateTokens gives a rough token count from the number of words, at
// about 1.33 tokens per word of English text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, w := range words.SegmentAll([]byte(text)) {
		if bytes.IndexFunc(w, isWordRune) >= 0 {
			n++
		}
	}
	tokens := int(float64(n) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
