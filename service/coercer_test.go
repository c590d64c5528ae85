package service

import (
	"strings"
	"testing"
)

func TestExtractAnswer(t *testing.T) {
	raw := "<|system|>\nrules\n<|end|>\n<|user|>\nquestion\n<|assistant|>\n  The notice period is 30 days.  "
	if got := ExtractAnswer(raw); got != "The notice period is 30 days." {
		t.Errorf("ExtractAnswer = %q", got)
	}
}

func TestExtractAnswer_NoAnchor(t *testing.T) {
	if got := ExtractAnswer("  plain output  "); got != "plain output" {
		t.Errorf("missing anchor should fall back to trimmed input, got %q", got)
	}
}

func TestCoerceExtraction_CleanJSON(t *testing.T) {
	raw := `<|assistant|>
	{"doc_id": "ignored", "parties": "Acme Corp and Beta LLC", "governing_law": "Delaware", "risk_score": 65, "payment_terms": {"description": "Net 30", "due_date": "monthly"}}`
	rec := CoerceExtraction(raw, "contract_a.pdf")
	if rec.DocID != "contract_a.pdf" {
		t.Errorf("doc_id must come from the request, got %q", rec.DocID)
	}
	if rec.Parties == nil || *rec.Parties != "Acme Corp and Beta LLC" {
		t.Errorf("parties = %v", rec.Parties)
	}
	if rec.RiskScore == nil || *rec.RiskScore != 65 {
		t.Errorf("risk_score = %v", rec.RiskScore)
	}
	if rec.PaymentTerms == nil || rec.PaymentTerms.Description == nil || *rec.PaymentTerms.Description != "Net 30" {
		t.Errorf("payment_terms = %+v", rec.PaymentTerms)
	}
}

func TestCoerceExtraction_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"parties\": \"Acme\", \"risk_score\": 10}\n```"
	rec := CoerceExtraction(raw, "d")
	if rec.Parties == nil || *rec.Parties != "Acme" {
		t.Errorf("fenced JSON should parse, got parties=%v notes=%v", rec.Parties, rec.Notes)
	}
}

func TestCoerceExtraction_ListFlattening(t *testing.T) {
	raw := `{"parties": ["Acme Corp", "Beta LLC"], "risk_score": 20}`
	rec := CoerceExtraction(raw, "d")
	if rec.Parties == nil || *rec.Parties != "Acme Corp, Beta LLC" {
		t.Errorf("list should flatten with comma join, got %v", rec.Parties)
	}
}

func TestCoerceExtraction_MapFlattening(t *testing.T) {
	raw := `{"governing_law": {"state": "Delaware", "country": "USA"}}`
	rec := CoerceExtraction(raw, "d")
	if rec.GoverningLaw == nil || *rec.GoverningLaw != "country: USA, state: Delaware" {
		t.Errorf("map should flatten to sorted key-value pairs, got %v", rec.GoverningLaw)
	}
}

func TestCoerceExtraction_PaymentTermsString(t *testing.T) {
	raw := `{"payment_terms": "Net 30 days"}`
	rec := CoerceExtraction(raw, "d")
	if rec.PaymentTerms == nil || rec.PaymentTerms.Description == nil || *rec.PaymentTerms.Description != "Net 30 days" {
		t.Errorf("string payment_terms should wrap into description, got %+v", rec.PaymentTerms)
	}
}

func TestCoerceExtraction_PaymentTermsList(t *testing.T) {
	raw := `{"payment_terms": ["Net 30", "late fee 2%"]}`
	rec := CoerceExtraction(raw, "d")
	if rec.PaymentTerms == nil || rec.PaymentTerms.Description == nil || *rec.PaymentTerms.Description != "Net 30, late fee 2%" {
		t.Errorf("list payment_terms should join into description, got %+v", rec.PaymentTerms)
	}
}

func TestCoerceExtraction_Garbage(t *testing.T) {
	rec := CoerceExtraction("I could not find any JSON here, sorry!", "contract_a.pdf")
	if rec.DocID != "contract_a.pdf" {
		t.Errorf("degraded record keeps doc_id, got %q", rec.DocID)
	}
	if rec.Notes == nil || !strings.HasPrefix(*rec.Notes, "Failed to parse analysis result. Raw output: ") {
		t.Errorf("notes = %v", rec.Notes)
	}
	if rec.Parties != nil || rec.RiskScore != nil {
		t.Error("degraded record must carry no extracted fields")
	}
}

func TestCoerceExtraction_TruncatedJSON(t *testing.T) {
	rec := CoerceExtraction(`{"parties": "Acme Corp", "governing_`, "d")
	if rec.Notes == nil || !strings.HasPrefix(*rec.Notes, "Failed to parse analysis result.") {
		t.Errorf("truncated JSON should degrade, got notes=%v", rec.Notes)
	}
}

func TestCoerceExtraction_RawOutputCapped(t *testing.T) {
	rec := CoerceExtraction(strings.Repeat("x", 500), "d")
	if rec.Notes == nil {
		t.Fatal("expected degraded notes")
	}
	const prefix = "Failed to parse analysis result. Raw output: "
	if len(*rec.Notes) != len(prefix)+100 {
		t.Errorf("raw output snippet should cap at 100 chars, notes length %d", len(*rec.Notes))
	}
}

func TestCoerceExtraction_SchemaRejectsWrongType(t *testing.T) {
	rec := CoerceExtraction(`{"risk_score": "very high"}`, "d")
	if rec.Notes == nil || !strings.HasPrefix(*rec.Notes, "validation error: ") {
		t.Errorf("non-integer risk_score should fail validation, got notes=%v", rec.Notes)
	}
	if rec.RiskScore != nil {
		t.Error("invalid payload must not populate fields")
	}
}

func TestCoerceExtraction_RiskScorePassthrough(t *testing.T) {
	// No range check: out-of-range integers survive coercion.
	rec := CoerceExtraction(`{"risk_score": 250}`, "d")
	if rec.RiskScore == nil || *rec.RiskScore != 250 {
		t.Errorf("risk_score = %v", rec.RiskScore)
	}
}

func TestCoerceExtraction_NullFields(t *testing.T) {
	rec := CoerceExtraction(`{"parties": null, "effective_date": null, "risk_score": null}`, "d")
	if rec.Parties != nil || rec.EffectiveDate != nil || rec.RiskScore != nil {
		t.Errorf("explicit nulls should decode to nil pointers, got %+v", rec)
	}
	if rec.Notes != nil {
		t.Errorf("valid payload should not carry a degradation note, got %v", rec.Notes)
	}
}
