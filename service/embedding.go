package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	embeddingBatchAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:batchEmbedContents"
	embeddingDims     = 768

	maxRetries     = 3
	initialBackoff = time.Second
)

// EmbeddingRequest represents an embedding API request
type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

// ContentInput represents content for embedding
type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

// PartInput represents a part of content
type PartInput struct {
	Text string `json:"text"`
}

type batchEmbeddingRequest struct {
	Requests []EmbeddingRequest `json:"requests"`
}

// batchEmbeddingItem is the structure returned by the batch API (no nested
// "embedding" key).
type batchEmbeddingItem struct {
	Values []float64 `json:"values"`
}

type batchEmbeddingResponse struct {
	Embeddings []batchEmbeddingItem `json:"embeddings"`
}

// GeminiEmbedder embeds texts with the gemini-embedding-001 model over HTTP.
// The REST API is used directly because the task type and output
// dimensionality knobs are set per request. Vectors are L2-normalized client
// side so cosine and dot-product distances agree.
type GeminiEmbedder struct {
	apiKey   string
	taskType string
	client   *http.Client
	logger   *zap.Logger
}

// NewGeminiEmbedder creates an embedder. taskType is the Gemini task type,
// RETRIEVAL_DOCUMENT for ingestion and RETRIEVAL_QUERY for query embedding.
func NewGeminiEmbedder(apiKey, taskType string, logger *zap.Logger) *GeminiEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiEmbedder{
		apiKey:   apiKey,
		taskType: taskType,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// EmbedTexts embeds the given texts, one normalized 768-dimension vector per
// input. Empty input yields empty output without an API call.
func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	if e.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	requests := make([]EmbeddingRequest, len(texts))
	for i, text := range texts {
		requests[i] = EmbeddingRequest{
			Model: "models/gemini-embedding-001",
			Content: ContentInput{
				Parts: []PartInput{{Text: text}},
			},
			TaskType:             e.taskType,
			OutputDimensionality: embeddingDims,
		}
	}

	jsonData, err := json.Marshal(batchEmbeddingRequest{Requests: requests})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", embeddingBatchAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", e.apiKey)

		resp, err := e.client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp batchEmbeddingResponse
			decodeErr := json.NewDecoder(resp.Body).Decode(&apiResp)
			resp.Body.Close()
			if decodeErr != nil {
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
				}
				continue
			}
			if len(apiResp.Embeddings) != len(texts) {
				return nil, fmt.Errorf("embedding count mismatch: requested %d, got %d", len(texts), len(apiResp.Embeddings))
			}

			vectors := make([][]float64, len(apiResp.Embeddings))
			for i, item := range apiResp.Embeddings {
				vectors[i] = normalize(item.Values)
			}
			return vectors, nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("embedding API error: %d", resp.StatusCode)
		}

		e.logger.Warn("embedding API request failed, retrying",
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt+1))

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("embedding API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("embedding request exhausted retries")
}

// normalize scales the vector to unit length.
func normalize(embedding []float64) []float64 {
	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}
	return embedding
}
