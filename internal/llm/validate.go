package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateCandidate checks a sanitized model reply against the Golden Circle
// contract. On success it returns the trimmed value. On failure it returns a
// human-readable reason (e.g. "field 'why' was empty") suitable for a repair
// prompt.
func ValidateCandidate(data []byte) (GoldenCircle, string, bool) {
	schemaErr := ValidateJSONAgainstSchema(BuildGoldenCircleJSONSchema(), data)

	if reason := fieldFailureReasons(data); reason != "" {
		return GoldenCircle{}, reason, false
	}
	if schemaErr != nil {
		// Structurally wrong in a way the per-field check did not name.
		return GoldenCircle{}, schemaErr.Error(), false
	}

	var gc GoldenCircle
	if err := json.Unmarshal(data, &gc); err != nil {
		return GoldenCircle{}, "response was not a JSON object: " + err.Error(), false
	}
	gc = gc.Trimmed()
	// minLength passes for whitespace-only strings; the contract does not.
	if reason := emptyAfterTrim(gc); reason != "" {
		return GoldenCircle{}, reason, false
	}
	return gc, "", true
}

// fieldFailureReasons names each missing, empty, or mistyped required field.
func fieldFailureReasons(data []byte) string {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return "response was not a JSON object: " + err.Error()
	}

	var reasons []string
	for _, field := range []string{"why", "how", "what"} {
		v, ok := m[field]
		if !ok {
			reasons = append(reasons, fmt.Sprintf("field '%s' was missing", field))
			continue
		}
		s, isString := v.(string)
		if !isString {
			reasons = append(reasons, fmt.Sprintf("field '%s' was not a string", field))
			continue
		}
		if strings.TrimSpace(s) == "" {
			reasons = append(reasons, fmt.Sprintf("field '%s' was empty", field))
		}
	}
	return strings.Join(reasons, "; ")
}

func emptyAfterTrim(gc GoldenCircle) string {
	var reasons []string
	if gc.Why == "" {
		reasons = append(reasons, "field 'why' was empty")
	}
	if gc.How == "" {
		reasons = append(reasons, "field 'how' was empty")
	}
	if gc.What == "" {
		reasons = append(reasons, "field 'what' was empty")
	}
	return strings.Join(reasons, "; ")
}
