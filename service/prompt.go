package service

import "fmt"

// Role tags of the instruction-tuned chat template. The assistant anchor
// doubles as the split point when extracting the response from raw model
// output.
const (
	systemTag       = "<|system|>"
	endTag          = "<|end|>"
	userTag         = "<|user|>"
	assistantAnchor = "<|assistant|>"
)

// BuildQAPrompt renders the compliance Q&A prompt around the assembled
// context. Pure templating, no side effects.
func BuildQAPrompt(context, question string) string {
	return fmt.Sprintf(`%s
You are a helpful compliance assistant. Answer the question based ONLY on the provided context.
If the answer is not in the context, say "No relevant info found."
Include citations to the source documents.
%s
%s
Context:
%s

Question: %s
%s
%s`, systemTag, endTag, userTag, context, question, endTag, assistantAnchor)
}

// BuildExtractionPrompt renders the structured-extraction prompt. The field
// list mirrors models.ContractExtraction; the model is instructed to emit
// strict JSON only, with null for fields it cannot find.
func BuildExtractionPrompt(docID, context string) string {
	return fmt.Sprintf(`%s
You are a legal expert. Analyze the following contract text segments and extract the required fields in STRICT JSON format.
Do not include any markdown formatting or explanation. Just the JSON.
Fields required:
- doc_id: %q
- parties: Who are the parties?
- effective_date: When does it start?
- termination_clause: Summary of termination rights.
- confidentiality_clause: Summary of confidentiality obligations.
- governing_law: Which jurisdiction?
- payment_terms: { "description": "...", "due_date": "..." }
- risk_score: Integer 0-100 based on risk (high liability, strict termination = high risk).
- notes: Any other key observations.

If a field is not found, use null.
%s
%s
Contract Segments:
%s
%s
%s`, systemTag, docID, endTag, userTag, context, endTag, assistantAnchor)
}
