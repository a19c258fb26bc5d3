package llm

// BuildOrderJSONSchema returns the JSON-Schema (draft 2020-12 subset) the sanitized
// completion output must satisfy. Unknown keys, price keys included, are rejected.
func BuildOrderJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"codigo":    map[string]any{"type": "string"},
			"articulo":  map[string]any{"type": "string", "minLength": 1},
			"cantidad":  map[string]any{"type": "integer", "minimum": 1},
			"descuento": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		},
		"required": []string{"articulo", "cantidad", "descuento"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"productos":       map[string]any{"type": "array", "minItems": 1, "items": item},
			"cliente":         map[string]any{"type": "string"},
			"telefono":        map[string]any{"type": "string"},
			"email":           map[string]any{"type": "string"},
			"fechaCumpleanos": map[string]any{"type": "string"},
		},
		"required": []string{"productos"},
	}
}
