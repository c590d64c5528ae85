package service

import (
	"fmt"
	"strings"

	"contractsense-backend/models"
)

const (
	// smartContextBudget is the hard character cap on assembled extraction
	// context. A character budget is a conservative proxy for the model's
	// token window and bounds prompt size regardless of document length.
	smartContextBudget = 6000

	// introChunkCount is how many leading chunks of a document feed the
	// intro bucket regardless of tagging; a contract's opening passages
	// usually carry parties and dates even when no keyword fires.
	introChunkCount = 3

	chunkSeparator   = "\n...\n"
	sectionSeparator = "\n\n"
)

// bucketDef describes how chunks are assigned to a named bucket. Membership
// is not exclusive: a chunk with several tags lands in several buckets.
type bucketDef struct {
	name   string
	tags   []models.ClauseType
	intro  bool // membership by position instead of tags
	limit  int  // chunks kept per bucket, in original store order
}

var contextBuckets = []bucketDef{
	{name: "intro", intro: true, limit: 3},
	{name: "parties", tags: []models.ClauseType{models.ClauseParties}, limit: 2},
	{name: "dates", tags: []models.ClauseType{models.ClauseEffectiveDate, models.ClauseRenewal}, limit: 2},
	{name: "termination", tags: []models.ClauseType{models.ClauseTermination}, limit: 2},
	{name: "law", tags: []models.ClauseType{models.ClauseGoverningLaw}, limit: 2},
	{name: "confidentiality", tags: []models.ClauseType{models.ClauseConfidentiality}, limit: 2},
	{name: "payment", tags: []models.ClauseType{models.ClausePaymentTerms}, limit: 2},
	{name: "risk", tags: []models.ClauseType{models.ClauseLiability, models.ClauseRestrictiveCovenants, models.ClauseLicenseIP}, limit: 3},
}

// renderOrder fixes which buckets are rendered and in what priority. The
// confidentiality bucket is partitioned but not given its own section; its
// content reaches the model through the intro and co-tagged sections.
var renderOrder = []struct {
	bucket string
	label  string
}{
	{"intro", "INTRO"},
	{"parties", "PARTIES"},
	{"dates", "DATES"},
	{"termination", "TERMINATION"},
	{"law", "LAW"},
	{"payment", "PAYMENT"},
	{"risk", "RISK FACTORS (Liability/IP/Restrictions)"},
}

// BuildSmartContext assembles the bounded, clause-prioritized context block
// for the extraction path. Chunks are expected in store order (ascending
// chunk index); per-bucket selection keeps that order and never re-ranks.
// The result never exceeds smartContextBudget characters.
func BuildSmartContext(chunks []models.Chunk) string {
	buckets := make(map[string][]string, len(contextBuckets))
	for _, chunk := range chunks {
		for _, def := range contextBuckets {
			if len(buckets[def.name]) >= def.limit {
				continue
			}
			if def.intro {
				if chunk.ChunkIndex < introChunkCount {
					buckets[def.name] = append(buckets[def.name], chunk.Text)
				}
				continue
			}
			for _, tag := range def.tags {
				if chunk.ClauseTags.Has(tag) {
					buckets[def.name] = append(buckets[def.name], chunk.Text)
					break
				}
			}
		}
	}

	var sections []string
	for _, r := range renderOrder {
		texts := buckets[r.bucket]
		if len(texts) == 0 {
			continue
		}
		sections = append(sections, fmt.Sprintf("--- %s ---\n%s", r.label, strings.Join(texts, chunkSeparator)))
	}

	full := strings.Join(sections, sectionSeparator)
	if len(full) > smartContextBudget {
		full = full[:smartContextBudget]
	}
	return full
}

// BuildPlainContext concatenates surviving Q&A passages with source labels.
// No bucketing: the Q&A path sends every passage that cleared the relevance
// threshold.
func BuildPlainContext(passages []models.RetrievedPassage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("Source: %s\nContent: %s", p.Chunk.SourceDocument, p.Chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}
