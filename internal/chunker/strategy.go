package chunker

import (
	"fmt"
	"strings"
)

// Strategy names one of the fixed chunking strategies.
type Strategy string

const (
	Characters Strategy = "characters"
	Sentences  Strategy = "sentences"
	Paragraphs Strategy = "paragraphs"
	Semantic   Strategy = "semantic"
)

// Strategies lists every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{Characters, Sentences, Paragraphs, Semantic}
}

// ParseStrategy resolves a case-insensitive strategy name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case Characters, Sentences, Paragraphs, Semantic:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Params tunes a strategy. Size is the window size for Characters and the
// maximum chunk size for the others. Overlap only applies to Characters.
type Params struct {
	Size    int `json:"size"`
	Overlap int `json:"overlap"`
}

// DefaultParams returns the defaults for s.
func DefaultParams(s Strategy) Params {
	switch s {
	case Paragraphs:
		return Params{Size: 400}
	case Semantic:
		return Params{Size: 300}
	default:
		return Params{Size: 200}
	}
}

// WithDefaults fills a zero Size from DefaultParams.
func (p Params) WithDefaults(s Strategy) Params {
	if p.Size == 0 {
		p.Size = DefaultParams(s).Size
	}
	return p
}

// Validate reports whether p is usable with s, without running it.
func (p Params) Validate(s Strategy) error {
	switch s {
	case Characters:
		return validateWindow(p.Size, p.Overlap)
	case Sentences, Paragraphs, Semantic:
		if p.Overlap != 0 {
			return fmt.Errorf("%w: overlap is only supported by the %s strategy", ErrInvalidParams, Characters)
		}
		return validateMaxSize(p.Size)
	}
	return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
}

// Split runs strategy s over text.
func Split(s Strategy, text string, p Params) ([]Chunk, error) {
	if err := p.Validate(s); err != nil {
		return nil, err
	}
	switch s {
	case Characters:
		return ChunkByCharacters(text, p.Size, p.Overlap)
	case Sentences:
		return ChunkBySentences(text, p.Size)
	case Paragraphs:
		return ChunkByParagraphs(text, p.Size)
	default:
		return ChunkSemantic(text, p.Size)
	}
}
