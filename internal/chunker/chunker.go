package chunker

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	// ErrInvalidParams is wrapped by every parameter validation failure.
	ErrInvalidParams = errors.New("chunker: invalid parameters")
	// ErrUnknownStrategy is returned for strategy names outside the fixed set.
	ErrUnknownStrategy = errors.New("chunker: unknown strategy")
)

// Chunk is one slice of the source text. Start and End are rune offsets
// into the original text (End exclusive), and Text is exactly the runes in
// that range.
type Chunk struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the chunk size in runes.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// span is a half-open rune range [start, end) into the source text.
type span struct {
	start, end int
}

func (s span) len() int { return s.end - s.start }

func newChunk(r []rune, s span) Chunk {
	return Chunk{Text: string(r[s.start:s.end]), Start: s.start, End: s.end}
}

// trimSpan narrows s so that it neither starts nor ends with whitespace.
func trimSpan(r []rune, s span) span {
	for s.start < s.end && unicode.IsSpace(r[s.start]) {
		s.start++
	}
	for s.end > s.start && unicode.IsSpace(r[s.end-1]) {
		s.end--
	}
	return s
}

// rebase shifts chunks produced from a sub-slice of the source back into
// source coordinates.
func rebase(chunks []Chunk, offset int) []Chunk {
	for i := range chunks {
		chunks[i].Start += offset
		chunks[i].End += offset
	}
	return chunks
}

func validateMaxSize(maxSize int) error {
	if maxSize <= 0 {
		return fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidParams, maxSize)
	}
	return nil
}
