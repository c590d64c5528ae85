package repository

import (
	"context"
	"fmt"
	"strings"

	"contractsense-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository handles database operations for document chunks backed by
// pgvector. It is the only component that sees the comma-joined clause tag
// encoding; everything above it works with models.ClauseSet.
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Upsert writes chunks and their embeddings to the store. Writes are
// idempotent by chunk ID: re-ingesting a document overwrites the rows that
// share its derived IDs (last writer wins).
func (r *ChunkRepository) Upsert(ctx context.Context, chunks []models.Chunk, embeddings [][]float64) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks and embeddings length mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	query := `
		INSERT INTO contract_chunks (
			id, source_document, doc_type, chunk_index, chunk_text, clause_types, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7::vector)
		ON CONFLICT (id) DO UPDATE SET
			source_document = EXCLUDED.source_document,
			doc_type = EXCLUDED.doc_type,
			chunk_index = EXCLUDED.chunk_index,
			chunk_text = EXCLUDED.chunk_text,
			clause_types = EXCLUDED.clause_types,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()`

	for i, chunk := range chunks {
		_, err := r.db.Exec(
			ctx, query,
			chunk.ID,
			chunk.SourceDocument,
			chunk.DocType,
			chunk.ChunkIndex,
			chunk.Text,
			chunk.ClauseTags.String(),
			formatVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", chunk.ID, err)
		}
	}

	return nil
}

// FetchBySource returns all chunks of a source document in chunk order.
// An empty slice is a valid outcome (document not yet ingested); only
// connectivity or query failures are returned as errors.
func (r *ChunkRepository) FetchBySource(ctx context.Context, sourceDocument string) ([]models.Chunk, error) {
	query := `
		SELECT id, source_document, doc_type, chunk_index, chunk_text, clause_types
		FROM contract_chunks
		WHERE source_document = $1
		ORDER BY chunk_index`

	rows, err := r.db.Query(ctx, query, sourceDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks for %s: %w", sourceDocument, err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		var tags string
		err := rows.Scan(
			&chunk.ID,
			&chunk.SourceDocument,
			&chunk.DocType,
			&chunk.ChunkIndex,
			&chunk.Text,
			&tags,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.ClauseTags = models.ParseClauseSet(tags)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	return chunks, nil
}

// QueryNearest performs a cosine-distance nearest-neighbor search and returns
// up to k passages, best match first. Ties are broken in store order, which
// is not deterministic.
func (r *ChunkRepository) QueryNearest(ctx context.Context, embedding []float64, k int) ([]models.RetrievedPassage, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	vectorStr := formatVector(embedding)

	query := `
		SELECT
			id, source_document, doc_type, chunk_index, chunk_text, clause_types,
			embedding <=> $1::vector AS distance
		FROM contract_chunks
		ORDER BY embedding <=> $1::vector
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, vectorStr, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest chunks: %w", err)
	}
	defer rows.Close()

	var passages []models.RetrievedPassage
	for rows.Next() {
		var p models.RetrievedPassage
		var tags string
		err := rows.Scan(
			&p.Chunk.ID,
			&p.Chunk.SourceDocument,
			&p.Chunk.DocType,
			&p.Chunk.ChunkIndex,
			&p.Chunk.Text,
			&tags,
			&p.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		p.Chunk.ClauseTags = models.ParseClauseSet(tags)
		passages = append(passages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating passages: %w", err)
	}

	return passages, nil
}
