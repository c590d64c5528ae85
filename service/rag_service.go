package service

import (
	"context"
	"errors"
	"fmt"

	"contractsense-backend/models"

	"go.uber.org/zap"
)

const (
	// defaultDistanceThreshold is the maximum store distance for a passage
	// to count as relevant. Lower is better for L2; 1.0 corresponds to a
	// cosine similarity of 0.5. The value is tuned to the distance scale of
	// gemini-embedding-001 and must be re-derived for any other embedding
	// model.
	defaultDistanceThreshold = 1.0

	defaultTopK = 3

	qaMaxNewTokens = 900

	// NoRelevantInfoAnswer is the fixed short-circuit answer when every
	// retrieved passage falls outside the relevance threshold. Generation
	// is skipped entirely in that case.
	NoRelevantInfoAnswer = "No relevant info found."

	llmNotLoadedAnswer = "LLM not loaded. Cannot generate answer."
)

var (
	ErrEmbeddingFailed = errors.New("failed to generate embedding")
	ErrRetrievalFailed = errors.New("failed to retrieve passages")
)

// RAGService runs the retrieval-augmented Q&A path: embed the question, pull
// nearest passages, threshold-filter, and generate an answer grounded in the
// surviving context.
type RAGService struct {
	store             PassageStore
	embedder          Embedder
	generator         Generator
	logger            *zap.Logger
	topK              int
	distanceThreshold float64
}

// RAGServiceOption is a functional option for RAGService
type RAGServiceOption func(*RAGService)

// WithPassageStore sets the passage store
func WithPassageStore(store PassageStore) RAGServiceOption {
	return func(s *RAGService) {
		s.store = store
	}
}

// WithEmbedder sets the query embedder
func WithEmbedder(embedder Embedder) RAGServiceOption {
	return func(s *RAGService) {
		s.embedder = embedder
	}
}

// WithGenerator sets the generative backend
func WithGenerator(generator Generator) RAGServiceOption {
	return func(s *RAGService) {
		s.generator = generator
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RAGServiceOption {
	return func(s *RAGService) {
		s.logger = logger
	}
}

// WithTopK sets how many nearest passages are retrieved per query
func WithTopK(k int) RAGServiceOption {
	return func(s *RAGService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithDistanceThreshold sets the relevance cutoff distance
func WithDistanceThreshold(threshold float64) RAGServiceOption {
	return func(s *RAGService) {
		s.distanceThreshold = threshold
	}
}

// NewRAGService creates a new RAG service
func NewRAGService(opts ...RAGServiceOption) *RAGService {
	s := &RAGService{
		logger:            zap.NewNop(),
		topK:              defaultTopK,
		distanceThreshold: defaultDistanceThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve embeds the query and returns up to topK nearest passages, best
// match first, unfiltered. Relevance filtering is deliberately left to the
// caller: retrieval stays mechanical, policy lives in the path that owns it.
func (s *RAGService) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievedPassage, error) {
	if s.embedder == nil {
		return nil, errors.New("embedder not set")
	}
	if s.store == nil {
		return nil, errors.New("passage store not set")
	}
	if topK <= 0 {
		topK = s.topK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 vector, got %d", ErrEmbeddingFailed, len(vectors))
	}

	passages, err := s.store.QueryNearest(ctx, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}
	return passages, nil
}

// AnswerQuestion runs the compliance Q&A pipeline. Passages at or beyond the
// distance threshold are discarded entirely; if none survive, the fixed
// no-relevant-info result is returned without calling the model, which both
// avoids hallucinated answers from irrelevant context and saves an inference
// call. A store or embedding failure propagates: the pipeline cannot
// function without them.
func (s *RAGService) AnswerQuestion(ctx context.Context, question string) (*models.AnswerResult, error) {
	passages, err := s.Retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, err
	}

	var relevant []models.RetrievedPassage
	for _, p := range passages {
		if p.Distance < s.distanceThreshold {
			relevant = append(relevant, p)
		}
	}

	if len(relevant) == 0 {
		return &models.AnswerResult{
			Answer:           NoRelevantInfoAnswer,
			Citations:        []string{},
			SimilarityScores: []float64{},
		}, nil
	}

	answer := llmNotLoadedAnswer
	if s.generator != nil && s.generator.Available() {
		prompt := BuildQAPrompt(BuildPlainContext(relevant), question)
		raw, err := s.generator.Generate(ctx, prompt, qaMaxNewTokens)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		answer = ExtractAnswer(raw)
	} else {
		s.logger.Warn("generative backend unavailable, returning stub answer")
	}

	citations := make([]string, 0, len(relevant))
	seen := make(map[string]bool, len(relevant))
	scores := make([]float64, 0, len(relevant))
	for _, p := range relevant {
		if !seen[p.Chunk.SourceDocument] {
			seen[p.Chunk.SourceDocument] = true
			citations = append(citations, p.Chunk.SourceDocument)
		}
		scores = append(scores, p.Distance)
	}

	return &models.AnswerResult{
		Answer:           answer,
		Citations:        citations,
		SimilarityScores: scores,
	}, nil
}
