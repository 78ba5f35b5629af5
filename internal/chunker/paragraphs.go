package chunker

import "unicode"

// ChunkByParagraphs emits one chunk per paragraph, where paragraphs are
// separated by one or more blank lines. Surrounding whitespace is trimmed
// from each paragraph and whitespace-only paragraphs are skipped. Paragraphs
// longer than maxSize fall back to ChunkBySentences.
func ChunkByParagraphs(text string, maxSize int) ([]Chunk, error) {
	if err := validateMaxSize(maxSize); err != nil {
		return nil, err
	}

	r := []rune(text)
	var chunks []Chunk
	for _, p := range splitParagraphs(r) {
		p = trimSpan(r, p)
		if p.len() == 0 {
			continue
		}
		if p.len() <= maxSize {
			chunks = append(chunks, newChunk(r, p))
			continue
		}
		sub, err := ChunkBySentences(string(r[p.start:p.end]), maxSize)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, rebase(sub, p.start)...)
	}
	return chunks, nil
}

// ChunkSemantic stands in for embedding-based boundary detection. It uses
// paragraph boundaries as the proxy and behaves exactly like
// ChunkByParagraphs.
func ChunkSemantic(text string, maxSize int) ([]Chunk, error) {
	return ChunkByParagraphs(text, maxSize)
}

// splitParagraphs cuts r at every separator made of a newline, any run of
// whitespace and a final newline. The separator runs to the last newline of
// that whitespace run.
func splitParagraphs(r []rune) []span {
	var paras []span
	start := 0
	for i := 0; i < len(r); i++ {
		if r[i] != '\n' {
			continue
		}
		last := -1
		for j := i + 1; j < len(r) && unicode.IsSpace(r[j]); j++ {
			if r[j] == '\n' {
				last = j
			}
		}
		if last < 0 {
			continue
		}
		paras = append(paras, span{start: start, end: i})
		start = last + 1
		i = last
	}
	return append(paras, span{start: start, end: len(r)})
}
