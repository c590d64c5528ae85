package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"contractsense-backend/models"
)

func TestAnalyze_DocumentNotFound(t *testing.T) {
	analyzer := NewContractAnalyzer(newFakeStore(), &fakeGenerator{available: true}, nil)
	rec, err := analyzer.Analyze(context.Background(), "missing.pdf")
	if err != nil {
		t.Fatalf("unknown document is not an error: %v", err)
	}
	if rec.DocID != "missing.pdf" {
		t.Errorf("doc_id = %q", rec.DocID)
	}
	if rec.Notes == nil || *rec.Notes != "No content found." {
		t.Errorf("notes = %v", rec.Notes)
	}
}

func TestAnalyze_GeneratorUnavailable(t *testing.T) {
	store := newFakeStore()
	store.chunks["c.pdf"] = []models.Chunk{chunkWith(0, "some text", models.ClauseGeneral)}
	analyzer := NewContractAnalyzer(store, &fakeGenerator{available: false}, nil)

	rec, err := analyzer.Analyze(context.Background(), "c.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Notes == nil || *rec.Notes != "LLM not loaded." {
		t.Errorf("notes = %v", rec.Notes)
	}
}

func TestAnalyze_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("connection refused")
	analyzer := NewContractAnalyzer(store, &fakeGenerator{available: true}, nil)

	_, err := analyzer.Analyze(context.Background(), "c.pdf")
	if !errors.Is(err, ErrRetrievalFailed) {
		t.Errorf("expected ErrRetrievalFailed, got %v", err)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	store := newFakeStore()
	store.chunks["contract_a.pdf"] = []models.Chunk{
		chunkWith(0, "Between Acme Corp and Beta LLC.", models.ClauseParties),
		chunkWith(4, "Terminable upon material breach.", models.ClauseTermination),
	}
	gen := &fakeGenerator{
		available: true,
		response:  `{"parties": "Acme Corp and Beta LLC", "termination_clause": "Terminable on breach", "risk_score": 40}`,
	}
	analyzer := NewContractAnalyzer(store, gen, nil)

	rec, err := analyzer.Analyze(context.Background(), "contract_a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generation call, got %d", gen.calls)
	}
	// The prompt carries the assembled smart context, not raw chunks.
	if !strings.Contains(gen.prompt, "--- PARTIES ---") || !strings.Contains(gen.prompt, "--- TERMINATION ---") {
		t.Errorf("prompt missing context sections:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, `"contract_a.pdf"`) {
		t.Error("prompt missing doc id")
	}
	if rec.Parties == nil || *rec.Parties != "Acme Corp and Beta LLC" {
		t.Errorf("parties = %v", rec.Parties)
	}
	if rec.RiskScore == nil || *rec.RiskScore != 40 {
		t.Errorf("risk_score = %v", rec.RiskScore)
	}
}

func TestAnalyze_MalformedOutputDegrades(t *testing.T) {
	store := newFakeStore()
	store.chunks["c.pdf"] = []models.Chunk{chunkWith(0, "text", models.ClauseGeneral)}
	gen := &fakeGenerator{available: true, response: "I am not JSON at all"}
	analyzer := NewContractAnalyzer(store, gen, nil)

	rec, err := analyzer.Analyze(context.Background(), "c.pdf")
	if err != nil {
		t.Fatalf("malformed model output is not an error: %v", err)
	}
	if rec.Notes == nil || !strings.HasPrefix(*rec.Notes, "Failed to parse analysis result.") {
		t.Errorf("notes = %v", rec.Notes)
	}
}

func TestAnalyze_GenerationFailure(t *testing.T) {
	store := newFakeStore()
	store.chunks["c.pdf"] = []models.Chunk{chunkWith(0, "text", models.ClauseGeneral)}
	gen := &fakeGenerator{available: true, err: errors.New("quota exceeded")}
	analyzer := NewContractAnalyzer(store, gen, nil)

	_, err := analyzer.Analyze(context.Background(), "c.pdf")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}
