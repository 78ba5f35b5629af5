package chunker

import "fmt"

// ChunkByCharacters cuts text into fixed windows of size runes. Each window
// starts size-overlap runes after the previous one, so consecutive chunks
// share overlap runes. The final window may be shorter than size.
func ChunkByCharacters(text string, size, overlap int) ([]Chunk, error) {
	if err := validateWindow(size, overlap); err != nil {
		return nil, err
	}

	r := []rune(text)
	if len(r) == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]Chunk, 0, (len(r)+step-1)/step)
	for i := 0; i < len(r); i += step {
		chunks = append(chunks, newChunk(r, span{start: i, end: min(i+size, len(r))}))
	}
	return chunks, nil
}

func validateWindow(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidParams, size)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap cannot be negative, got %d", ErrInvalidParams, overlap)
	}
	if overlap >= size {
		return fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidParams, overlap, size)
	}
	return nil
}
