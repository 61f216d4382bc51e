// Package chunker normalizes extracted text and splits it into overlapping
// fixed-size windows, the unit of embedding and retrieval.
package chunker

import (
	"fmt"
	"strings"
)

// Chunker holds a validated window configuration.
type Chunker struct {
	size    int
	overlap int
}

// New validates the window configuration up front so a bad config can never
// reach the split loop.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got overlap=%d size=%d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Normalize collapses hyphenation line-breaks, folds remaining newlines to
// spaces and lower-cases the text. Queries are normalized the same way as
// document text so both sides embed identically.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "-\n", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ToLower(text)
}

// Split produces successive windows [start, start+size) over text, advancing
// by size-overlap. Size and overlap count runes, so a window boundary can
// never cut a multi-byte character in half. The final window is clipped to
// the text end and kept even when shorter than size. Empty text yields no
// chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	var chunks []string
	textLen := len(runes)
	start := 0

	for start < textLen {
		end := start + c.size
		if end > textLen {
			end = textLen
		}
		chunks = append(chunks, string(runes[start:end]))

		if end == textLen {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// Size reports the configured window length.
func (c *Chunker) Size() int { return c.size }

// Overlap reports the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }
