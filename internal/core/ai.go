package core

import "context"

// EmbeddingProvider maps an ordered sequence of texts to an ordered sequence
// of fixed-dimension vectors. Output order must match input order; an empty
// input yields an empty output.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
