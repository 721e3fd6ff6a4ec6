package llm

import "strings"

// BuildSystemPrompt composes the system message: role, output contract, and
// per-field guidance for the Golden Circle framework.
func BuildSystemPrompt(brandName string) string {
	parts := []string{
		"You are a brand strategist. You analyze stakeholder interview transcripts and distill the Golden Circle framework.",
		"Return ONLY JSON that matches the provided JSON Schema.",
		"'why' is the purpose, belief, or cause - why the brand exists.",
		"'how' is the process or values - how the brand fulfills its purpose.",
		"'what' is the products or services - what the brand actually does.",
		"All three fields are required and must be non-empty prose.",
		"Never output null. Never add fields beyond the schema.",
	}
	if n := strings.TrimSpace(brandName); n != "" {
		parts = append(parts, "The brand is called '"+n+"'.")
	} else {
		parts = append(parts, "Base the analysis on the brand as described in the interview itself.")
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the normalized interview text, and on repair
// attempts the specific validation failure so the model can self-correct.
func BuildUserPrompt(interviewText, repairFeedback string) string {
	var b strings.Builder
	if fb := strings.TrimSpace(repairFeedback); fb != "" {
		b.WriteString("Your previous answer was rejected: ")
		b.WriteString(fb)
		b.WriteString(". Correct the problem and return the complete JSON object again.\n\n")
	}
	b.WriteString("Interview transcript:\n")
	b.WriteString(interviewText)
	return b.String()
}
