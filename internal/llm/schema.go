package llm

import "encoding/json"

// BuildGoldenCircleJSONSchema returns a JSON-Schema (draft 2020-12 subset) as
// a generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate the reply.
func BuildGoldenCircleJSONSchema() map[string]any {
	props := map[string]any{
		"why": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The purpose, belief, or cause - why the brand exists",
		},
		"how": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The process or values - how the brand fulfills its purpose",
		},
		"what": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The products or services - what the brand actually does",
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"why", "how", "what"},
	}
}

// SchemaDescription serializes the Golden Circle schema for embedding in a
// generation request.
func SchemaDescription() string {
	return mustJSON(BuildGoldenCircleJSONSchema())
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
