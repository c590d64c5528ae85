package models

// PaymentTerms holds the payment-related fields of an extracted contract.
type PaymentTerms struct {
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// ContractExtraction is the structured record produced by the extraction
// path. All fields except DocID are optional: a missing field means the model
// could not find it in the contract text. Every string field, once populated,
// holds a scalar string; the coercer flattens lists and mappings before
// validation.
type ContractExtraction struct {
	DocID                 string        `json:"doc_id"`
	Parties               *string       `json:"parties"`
	EffectiveDate         *string       `json:"effective_date"`
	TerminationClause     *string       `json:"termination_clause"`
	ConfidentialityClause *string       `json:"confidentiality_clause"`
	GoverningLaw          *string       `json:"governing_law"`
	PaymentTerms          *PaymentTerms `json:"payment_terms"`
	RiskScore             *int          `json:"risk_score"`
	Notes                 *string       `json:"notes"`
}

// AnswerResult is the outcome of the compliance Q&A path. Citations are the
// deduplicated source documents of the passages that survived the relevance
// threshold; SimilarityScores is aligned positionally with those passages.
type AnswerResult struct {
	Answer           string    `json:"answer"`
	Citations        []string  `json:"citations"`
	SimilarityScores []float64 `json:"similarity_scores"`
}
