package service

import (
	"strings"

	"contractsense-backend/models"
)

// clauseKeywords maps each clause type to its trigger phrases. Trigger lists
// are data: adding a clause type means adding a keyword set, not new control
// flow. Keyword sets are expanded from the CUAD master clause list.
var clauseKeywords = map[models.ClauseType][]string{
	models.ClauseTermination: {
		"terminate", "termination", "cancel", "cancellation", "rescind",
		"end of agreement", "convenience", "breach", "notice period",
	},
	models.ClauseEffectiveDate: {
		"effective date", "commencement date", "start date", "dated as of",
		"made as of", "initial term", "expiration date",
	},
	models.ClauseRenewal: {
		"renew", "renewal", "extension", "extend", "automatic renewal",
		"successive term",
	},
	models.ClauseParties: {
		"parties", "between", "among", "entered into by", "buyer", "seller",
		"provider", "customer", "licensor", "licensee", "grantor", "grantee",
		"landlord", "tenant", "contractor",
	},
	models.ClauseGoverningLaw: {
		"governing law", "jurisdiction", "laws of", "venue", "courts of",
		"construed in accordance", "dispute resolution", "arbitration",
	},
	models.ClauseConfidentiality: {
		"confidential", "confidentiality", "non-disclosure", "secrecy",
		"proprietary information", "trade secret",
	},
	models.ClausePaymentTerms: {
		"payment", "fees", "invoice", "due date", "remittance", "pricing",
		"compensation", "royalties", "minimum commitment",
	},
	models.ClauseLiability: {
		"liability", "indemnification", "damages", "limitation of liability",
		"hold harmless", "cap on liability", "liquidated damages", "warranty",
	},
	models.ClauseLicenseIP: {
		"license grant", "intellectual property", "ownership", "work for hire",
		"assignment", "patent", "trademark", "copyright", "source code",
	},
	models.ClauseRestrictiveCovenants: {
		"non-compete", "exclusivity", "non-solicit", "competitive restriction",
		"most favored nation", "territory",
	},
}

// ClauseTagger is a rule-based multi-label classifier over chunk text.
type ClauseTagger struct{}

// NewClauseTagger creates a new clause tagger
func NewClauseTagger() *ClauseTagger {
	return &ClauseTagger{}
}

// Tag assigns clause types to the given text. A clause type is assigned when
// any of its trigger phrases occurs as a substring of the lower-cased text;
// matching is independent per type, with no weighting or position
// sensitivity. Text that matches nothing is tagged {general}.
func (t *ClauseTagger) Tag(text string) models.ClauseSet {
	lower := strings.ToLower(text)
	detected := make(models.ClauseSet)
	for clause, keywords := range clauseKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				detected.Add(clause)
				break
			}
		}
	}
	if len(detected) == 0 {
		detected.Add(models.ClauseGeneral)
	}
	return detected
}
