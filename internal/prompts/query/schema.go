package query

// RouteSchema is the JSON schema for the routing decision.
// key_to_extract is a single rule number for definition lookups or a list
// of term variants for rule-number searches.
var RouteSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "query_routing",
		"strict": true,
		"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key_to_extract": map[string]any{
					"description": "Rule number, or list of term variants",
					"oneOf": []any{
						map[string]any{"type": "string"},
						map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
				"information_to_extract": map[string]any{
					"type": "string",
					"enum": []string{"definition", "rule_number"},
				},
			},
			"required":             []string{"key_to_extract", "information_to_extract"},
			"additionalProperties": false,
		},
	},
}

// Route represents the parsed routing decision.
type Route struct {
	KeyToExtract         any    `json:"key_to_extract"`
	InformationToExtract string `json:"information_to_extract"`
}
