package service

import (
	"context"
	"fmt"

	"contractsense-backend/models"

	"go.uber.org/zap"
)

const (
	extractionMaxNewTokens = 500

	notesNoContent    = "No content found."
	notesLLMNotLoaded = "LLM not loaded."
)

// ContractAnalyzer runs the structured extraction path: fetch every chunk of
// a document, assemble smart context, prompt the model for strict JSON, and
// coerce the response into a ContractExtraction.
type ContractAnalyzer struct {
	store     PassageStore
	generator Generator
	logger    *zap.Logger
}

// NewContractAnalyzer creates a new contract analyzer
func NewContractAnalyzer(store PassageStore, generator Generator, logger *zap.Logger) *ContractAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractAnalyzer{store: store, generator: generator, logger: logger}
}

// Analyze extracts a structured record for the given document. The only
// error it returns is a store failure; a missing document, an unavailable
// model, and malformed model output all resolve to a well-formed record with
// an explanatory note.
func (a *ContractAnalyzer) Analyze(ctx context.Context, docID string) (*models.ContractExtraction, error) {
	a.logger.Info("analyzing contract", zap.String("doc_id", docID))

	chunks, err := a.store.FetchBySource(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	if len(chunks) == 0 {
		a.logger.Warn("no chunks found for document", zap.String("doc_id", docID))
		note := notesNoContent
		return &models.ContractExtraction{DocID: docID, Notes: &note}, nil
	}

	if a.generator == nil || !a.generator.Available() {
		note := notesLLMNotLoaded
		return &models.ContractExtraction{DocID: docID, Notes: &note}, nil
	}

	prompt := BuildExtractionPrompt(docID, BuildSmartContext(chunks))

	raw, err := a.generator.Generate(ctx, prompt, extractionMaxNewTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	record := CoerceExtraction(raw, docID)
	return &record, nil
}
