package measurements

// ExtractionSchema is the JSON schema for measurement extraction output.
// Keys are sequential labels (dimension1, property1, parameter1) and each
// entry carries the typed attributes for its category.
var ExtractionSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "measurement_extraction",
		"strict": false,
		"schema": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type":        "string",
						"description": "Measurement kind, e.g. angle, yield strength, voltage",
					},
					"component": map[string]any{
						"description": "Component(s) the value applies to",
						"oneOf": []any{
							map[string]any{"type": "string"},
							map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
						},
					},
					"material": map[string]any{"type": "string"},
					"welded":   map[string]any{"type": "string"},
					"criteria": map[string]any{"type": "string"},
					"value":    map[string]any{"type": "string"},
					"unit":     map[string]any{"type": "string"},
				},
				"required": []string{"type", "value", "unit"},
			},
		},
	},
}
