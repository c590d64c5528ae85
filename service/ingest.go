package service

import (
	"context"
	"errors"
	"fmt"

	"contractsense-backend/models"

	"go.uber.org/zap"
)

// IngestService turns extracted document text into tagged, masked, embedded
// chunks and upserts them. Ingestion is an offline batch step: it is the only
// mutating operation in the system and is not meant to run concurrently with
// itself against the same document (last writer wins on ID collision).
type IngestService struct {
	store    PassageStore
	embedder Embedder
	masker   Masker
	tagger   *ClauseTagger
	splitter *TextSplitter
	logger   *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(store PassageStore, embedder Embedder, masker Masker, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		store:    store,
		embedder: embedder,
		masker:   masker,
		tagger:   NewClauseTagger(),
		splitter: NewTextSplitter(1000, 150),
		logger:   logger,
	}
}

// IngestDocument chunks the text, masks PII per chunk, tags clauses, embeds,
// and upserts. The steps run in exactly that order: masking happens before
// embedding so entity names never reach the vector store. Returns the number
// of chunks written.
func (s *IngestService) IngestDocument(ctx context.Context, sourceDocument, docType, text string) (int, error) {
	rawChunks := s.splitter.Split(text)
	if len(rawChunks) == 0 {
		return 0, errors.New("no text to ingest")
	}

	chunks := make([]models.Chunk, len(rawChunks))
	texts := make([]string, len(rawChunks))
	for i, raw := range rawChunks {
		masked, err := s.masker.Mask(ctx, raw)
		if err != nil {
			return 0, fmt.Errorf("failed to mask chunk %d: %w", i, err)
		}
		chunks[i] = models.Chunk{
			ID:             models.DeriveChunkID(sourceDocument, i),
			SourceDocument: sourceDocument,
			DocType:        docType,
			ChunkIndex:     i,
			Text:           masked,
			ClauseTags:     s.tagger.Tag(masked),
		}
		texts[i] = masked
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	if err := s.store.Upsert(ctx, chunks, embeddings); err != nil {
		return 0, fmt.Errorf("failed to upsert chunks: %w", err)
	}

	s.logger.Info("ingested document",
		zap.String("source", sourceDocument),
		zap.String("doc_type", docType),
		zap.Int("chunks", len(chunks)))

	return len(chunks), nil
}
