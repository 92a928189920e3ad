package terms

// ExtractionSchema is the JSON schema for term extraction output.
// technical_terms is either a list of terms or the literal string "NONE".
var ExtractionSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "technical_term_extraction",
		"strict": true,
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"technical_terms": map[string]any{
					"description": "Terms in definition order, or the string NONE when none are present",
					"oneOf": []any{
						map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						map[string]any{"type": "string"},
					},
				},
			},
			"required":             []string{"technical_terms"},
			"additionalProperties": false,
		},
	},
}

// Result represents the parsed result from term extraction.
// TechnicalTerms is left untyped because the model may return either a
// list of strings or the sentinel string "NONE".
type Result struct {
	TechnicalTerms any `json:"technical_terms"`
}
