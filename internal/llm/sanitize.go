package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// StripCodeFences removes a surrounding markdown code fence from a model
// reply. Models wrap JSON in ```json fences often enough that we always try.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// refusalPhrases are sampled from observed model refusals. A reply containing
// one is an invalid candidate, not a transport failure.
var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

// IsRefusal reports whether the reply reads as a refusal rather than content.
func IsRefusal(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// SanitizeCandidate
// - Removes keys beyond the schema set (strict additionalProperties friendliness)
// - Trims string values
// Empty strings survive so the validator can name the empty field.
func SanitizeCandidate(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	allowed := map[string]struct{}{"why": {}, "how": {}, "what": {}}
	var dropped []string
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k)
		}
	}

	for k, v := range m {
		if s, ok := v.(string); ok {
			m[k] = strings.TrimSpace(s)
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}
