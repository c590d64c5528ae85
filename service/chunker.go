package service

import "strings"

// TextSplitter splits raw document text into bounded chunks with overlap.
// It prefers splitting on paragraph breaks, then lines, then sentence ends,
// then words, and only hard-cuts when a single run of text has no separator
// at all.
type TextSplitter struct {
	chunkSize int
	overlap   int
}

var splitterSeparators = []string{"\n\n", "\n", ". ", " "}

// NewTextSplitter creates a splitter with the given chunk size and overlap
// in characters. Non-positive arguments fall back to the ingestion defaults
// (1000/150).
func NewTextSplitter(chunkSize, overlap int) *TextSplitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 150
	}
	return &TextSplitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the chunks of text, each at most chunkSize characters, with
// roughly overlap characters repeated between consecutive chunks.
func (s *TextSplitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	pieces := s.splitRecursive(text, splitterSeparators)
	return s.merge(pieces)
}

// splitRecursive breaks text into pieces no longer than chunkSize, trying
// coarser separators first.
func (s *TextSplitter) splitRecursive(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		// No separator left: hard cut.
		var out []string
		for len(text) > s.chunkSize {
			out = append(out, text[:s.chunkSize])
			text = text[s.chunkSize:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	sep := separators[0]
	if !strings.Contains(text, sep) {
		return s.splitRecursive(text, separators[1:])
	}

	var out []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if len(part) > s.chunkSize {
			out = append(out, s.splitRecursive(part, separators[1:])...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// merge greedily packs pieces into chunks up to chunkSize, seeding each new
// chunk with the tail of the previous one for overlap. A chunk is only
// flushed once it holds more than its overlap seed, so no chunk consists of
// repeated content alone.
func (s *TextSplitter) merge(pieces []string) []string {
	var chunks []string
	current := ""
	seed := 0

	for _, piece := range pieces {
		if len(current)+len(piece) > s.chunkSize {
			if len(current) > seed {
				if chunk := strings.TrimSpace(current); chunk != "" {
					chunks = append(chunks, chunk)
				}
				tail := current
				if len(tail) > s.overlap {
					tail = tail[len(tail)-s.overlap:]
				}
				current = tail
				seed = len(tail)
			}
			if len(current)+len(piece) > s.chunkSize {
				// Even the overlap seed plus this piece overflows: drop
				// the seed to keep the size bound.
				current = ""
				seed = 0
			}
		}
		current += piece
	}
	if len(current) > seed {
		if chunk := strings.TrimSpace(current); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
