package service

import (
	"context"
	"errors"

	"contractsense-backend/models"
)

// fakeStore is an in-memory PassageStore for pipeline tests.
type fakeStore struct {
	chunks    map[string][]models.Chunk
	passages  []models.RetrievedPassage
	upserted  []models.Chunk
	fetchErr  error
	queryErr  error
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunks: make(map[string][]models.Chunk)}
}

func (s *fakeStore) Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float64) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if len(chunks) != len(embeddings) {
		return errors.New("chunk/embedding length mismatch")
	}
	s.upserted = append(s.upserted, chunks...)
	return nil
}

func (s *fakeStore) FetchBySource(ctx context.Context, sourceDocument string) ([]models.Chunk, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.chunks[sourceDocument], nil
}

func (s *fakeStore) QueryNearest(ctx context.Context, embedding []float64, k int) ([]models.RetrievedPassage, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if k < len(s.passages) {
		return s.passages[:k], nil
	}
	return s.passages, nil
}

// fakeEmbedder returns a fixed vector per input text.
type fakeEmbedder struct {
	err   error
	calls int
}

func (e *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeGenerator records the prompt it was called with.
type fakeGenerator struct {
	response  string
	err       error
	available bool
	calls     int
	prompt    string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	g.calls++
	g.prompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *fakeGenerator) Available() bool { return g.available }
