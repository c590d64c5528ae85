package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"contractsense-backend/models"

	"github.com/xeipuuv/gojsonschema"
)

// ExtractAnswer isolates the model's answer from raw Q&A output: the text
// after the last assistant anchor, trimmed. No JSON is involved on this path.
func ExtractAnswer(raw string) string {
	parts := strings.Split(raw, assistantAnchor)
	return strings.TrimSpace(parts[len(parts)-1])
}

// scalarStringFields are the extraction fields declared as scalar strings.
// Generative models routinely return lists or objects for them; the repair
// rules flatten those before validation.
var scalarStringFields = []string{
	"parties",
	"effective_date",
	"termination_clause",
	"confidentiality_clause",
	"governing_law",
	"notes",
}

// extractionSchema validates the repaired object before it is decoded into
// models.ContractExtraction. risk_score is range-checked nowhere: an
// out-of-range integer passes through unchanged.
var extractionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"doc_id":                 map[string]interface{}{"type": []string{"string", "null"}},
		"parties":                map[string]interface{}{"type": []string{"string", "null"}},
		"effective_date":         map[string]interface{}{"type": []string{"string", "null"}},
		"termination_clause":     map[string]interface{}{"type": []string{"string", "null"}},
		"confidentiality_clause": map[string]interface{}{"type": []string{"string", "null"}},
		"governing_law":          map[string]interface{}{"type": []string{"string", "null"}},
		"payment_terms": map[string]interface{}{
			"type": []string{"object", "null"},
			"properties": map[string]interface{}{
				"description": map[string]interface{}{"type": []string{"string", "null"}},
				"due_date":    map[string]interface{}{"type": []string{"string", "null"}},
			},
		},
		"risk_score": map[string]interface{}{"type": []string{"integer", "null"}},
		"notes":      map[string]interface{}{"type": []string{"string", "null"}},
	},
}

// flattenToString normalizes a list or mapping into a scalar string. Lists
// join with ", "; mappings render as "key: value" pairs joined with ", "
// (keys sorted, map iteration order is not deterministic). Other shapes pass
// through for validation to judge.
func flattenToString(val interface{}) interface{} {
	switch v := val.(type) {
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %v", k, v[k])
		}
		return strings.Join(parts, ", ")
	default:
		return val
	}
}

// repairPaymentTerms normalizes the payment_terms field, which the schema
// declares as a {description, due_date} object but models often return as a
// bare string or a list.
func repairPaymentTerms(val interface{}) interface{} {
	switch v := val.(type) {
	case string:
		return map[string]interface{}{"description": v}
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return map[string]interface{}{"description": strings.Join(parts, ", ")}
	default:
		return val
	}
}

// CoerceExtraction turns raw model output into a validated
// ContractExtraction. It is total: for any input string it returns a
// well-formed record, degraded at worst, and never an error. Shape
// deviations from the model are expected, recoverable events.
func CoerceExtraction(raw, docID string) models.ContractExtraction {
	response := ExtractAnswer(raw)

	// Clean up markdown code blocks if present
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(response), &data); err != nil || data == nil {
		return degradedRecord(docID, "Failed to parse analysis result. Raw output: "+truncate(response, 100))
	}

	for _, field := range scalarStringFields {
		if val, ok := data[field]; ok && val != nil {
			data[field] = flattenToString(val)
		}
	}
	if val, ok := data["payment_terms"]; ok && val != nil {
		data["payment_terms"] = repairPaymentTerms(val)
	}

	repaired, err := json.Marshal(data)
	if err != nil {
		return degradedRecord(docID, "validation error: "+err.Error())
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(extractionSchema),
		gojsonschema.NewBytesLoader(repaired),
	)
	if err != nil {
		return degradedRecord(docID, "validation error: "+err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return degradedRecord(docID, "validation error: "+strings.Join(msgs, "; "))
	}

	var extraction models.ContractExtraction
	if err := json.Unmarshal(repaired, &extraction); err != nil {
		return degradedRecord(docID, "validation error: "+err.Error())
	}
	extraction.DocID = docID
	return extraction
}

func degradedRecord(docID, note string) models.ContractExtraction {
	return models.ContractExtraction{DocID: docID, Notes: &note}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
