package llm

import (
	"context"
	"strings"
)

// GoldenCircle is the normalized shape we want from the model:
// the Why (purpose), How (process/values), What (products/services)
// of the interviewed business.
type GoldenCircle struct {
	Why  string `json:"why"`
	How  string `json:"how"`
	What string `json:"what"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (g GoldenCircle) Trimmed() GoldenCircle {
	return GoldenCircle{
		Why:  strings.TrimSpace(g.Why),
		How:  strings.TrimSpace(g.How),
		What: strings.TrimSpace(g.What),
	}
}

// Generator is the model-client capability the pipeline depends on.
// Implementations own their transport, authentication, and backoff;
// the pipeline never retries a transport failure.
type Generator interface {
	// Generate sends one prompt together with a serialized schema
	// description and returns the model's raw text reply.
	Generate(ctx context.Context, prompt, schemaDescription string) (string, error)
}
