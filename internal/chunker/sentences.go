package chunker

import "unicode"

// ChunkBySentences groups whole sentences into chunks of at most maxSize
// runes. A sentence ends at '.', '!' or '?' followed by whitespace; that
// whitespace separates sentences and is only kept when it falls inside a
// chunk. A sentence longer than maxSize is never cut and becomes its own
// oversized chunk.
func ChunkBySentences(text string, maxSize int) ([]Chunk, error) {
	if err := validateMaxSize(maxSize); err != nil {
		return nil, err
	}

	r := []rune(text)
	var chunks []Chunk
	var cur span
	open := false
	for _, s := range splitSentences(r) {
		if open && s.end-cur.start > maxSize {
			chunks = append(chunks, newChunk(r, cur))
			open = false
		}
		if !open {
			cur = s
			open = true
			continue
		}
		cur.end = s.end
	}
	if open {
		chunks = append(chunks, newChunk(r, cur))
	}
	return chunks, nil
}

// splitSentences locates sentence units in r. Units are trimmed and empty
// units are dropped.
func splitSentences(r []rune) []span {
	var units []span
	start := 0
	for i := 0; i+1 < len(r); i++ {
		if !isTerminal(r[i]) || !unicode.IsSpace(r[i+1]) {
			continue
		}
		units = appendUnit(units, r, span{start: start, end: i + 1})
		j := i + 1
		for j < len(r) && unicode.IsSpace(r[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	return appendUnit(units, r, span{start: start, end: len(r)})
}

func appendUnit(units []span, r []rune, s span) []span {
	if s = trimSpan(r, s); s.len() > 0 {
		units = append(units, s)
	}
	return units
}

func isTerminal(c rune) bool {
	return c == '.' || c == '!' || c == '?'
}
