package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ClauseType is a legal-topic category assigned to a chunk at ingestion time.
type ClauseType string

const (
	ClauseParties              ClauseType = "parties"
	ClauseEffectiveDate        ClauseType = "effective_date"
	ClauseRenewal              ClauseType = "renewal"
	ClauseTermination          ClauseType = "termination"
	ClauseGoverningLaw         ClauseType = "governing_law"
	ClauseConfidentiality      ClauseType = "confidentiality"
	ClausePaymentTerms         ClauseType = "payment_terms"
	ClauseLiability            ClauseType = "liability"
	ClauseLicenseIP            ClauseType = "license_ip"
	ClauseRestrictiveCovenants ClauseType = "restrictive_covenants"
	ClauseGeneral              ClauseType = "general"
)

// ClauseSet is a set of clause types. A chunk commonly carries several.
type ClauseSet map[ClauseType]bool

// NewClauseSet creates a set from the given types.
func NewClauseSet(types ...ClauseType) ClauseSet {
	s := make(ClauseSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// Has reports whether the set contains the given clause type.
func (s ClauseSet) Has(t ClauseType) bool {
	return s[t]
}

// Add inserts a clause type into the set.
func (s ClauseSet) Add(t ClauseType) {
	s[t] = true
}

// Values returns the clause types in sorted order.
func (s ClauseSet) Values() []ClauseType {
	out := make([]ClauseType, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String serializes the set as a comma-joined string for the store boundary.
// The chunks table stores tags as a single text column.
func (s ClauseSet) String() string {
	values := s.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

// ParseClauseSet parses a comma-joined tag string back into a set.
// An empty string yields {general}.
func ParseClauseSet(raw string) ClauseSet {
	s := make(ClauseSet)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			s[ClauseType(part)] = true
		}
	}
	if len(s) == 0 {
		s[ClauseGeneral] = true
	}
	return s
}

// Chunk is a bounded text span derived from a source document. Chunks are
// created once per ingestion run and immutable thereafter.
type Chunk struct {
	ID             uuid.UUID `json:"id"`
	SourceDocument string    `json:"source_document"`
	DocType        string    `json:"doc_type"` // "policy" or "contract"
	ChunkIndex     int       `json:"chunk_index"`
	Text           string    `json:"text"`
	ClauseTags     ClauseSet `json:"clause_tags"`
}

// chunkNamespace scopes derived chunk IDs to this application.
var chunkNamespace = uuid.MustParse("6f2a1d60-9c4e-4e0b-8a57-3d21b6c0f4aa")

// DeriveChunkID produces a deterministic chunk ID from the source document
// and chunk position, so re-ingesting a document overwrites its own chunks.
func DeriveChunkID(sourceDocument string, index int) uuid.UUID {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s_%d", sourceDocument, index)))
}

// RetrievedPassage is a chunk returned by a nearest-neighbor query along with
// its store-native distance (lower is more similar). Ephemeral, per-query.
type RetrievedPassage struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float64 `json:"distance"`
}
