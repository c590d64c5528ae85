package service

import (
	"context"

	"contractsense-backend/models"
)

// PassageStore is the narrow interface the pipeline needs from the vector
// store. *repository.ChunkRepository satisfies it; tests substitute fakes.
type PassageStore interface {
	Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float64) error
	FetchBySource(ctx context.Context, sourceDocument string) ([]models.Chunk, error)
	QueryNearest(ctx context.Context, embedding []float64, k int) ([]models.RetrievedPassage, error)
}

// Embedder converts texts into fixed-dimension normalized vectors.
// Empty input yields empty output.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces text from a prompt using deterministic decoding.
// Available reports whether the backend initialized; when it did not, callers
// return a stub result instead of invoking Generate.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
	Available() bool
}

// Masker replaces detected person/organization/location entity spans with
// bracketed placeholders. Applied once per chunk at ingestion time, never on
// query text.
type Masker interface {
	Mask(ctx context.Context, text string) (string, error)
}
