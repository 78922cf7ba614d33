package rules

// BuildTableJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used to reject structurally broken rule files before the
// per-type shape checks run.
func BuildTableJSONSchema() map[string]any {
	tierList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}

	entry := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":   map[string]any{"type": "integer", "minimum": 1},
			"name": map[string]any{"type": "string", "minLength": 1},
			"severity": map[string]any{
				"type": "string",
				"enum": []string{"low", "medium", "high", "critical"},
			},
			"type": map[string]any{
				"type": "string",
				"enum": []string{
					"format", "ocr_confidence", "grammar_count", "cross_clause",
					"fuzzy", "numeric_years", "numeric_amount", "numeric_days",
					"numeric_percentage", "presence_inverse",
				},
			},
			"patterns": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"green":  tierList,
					"yellow": tierList,
					"red":    tierList,
				},
			},
			"thresholds": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number"},
			},
		},
		"required": []string{"id", "name", "severity", "type"},
	}

	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    entry,
	}
}
