package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/brandforge/golden-circle/internal/common"
	"github.com/brandforge/golden-circle/internal/llm"
)

// Request carries one extraction round's inputs.
type Request struct {
	InterviewText  string
	BrandName      string
	RepairFeedback string // non-empty on repair attempts
}

// Extractor builds a schema-constrained generation request around normalized
// interview text, invokes the model client, and classifies the reply.
type Extractor struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewExtractor(gen llm.Generator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{gen: gen, logger: logger}
}

// ExtractOnce issues a single generation round and returns the sanitized
// candidate JSON. Transport failures surface as ModelUnavailable and are
// never retried here; a reply that is a refusal or not JSON surfaces as
// MalformedResponse for the repair loop to handle.
func (e *Extractor) ExtractOnce(ctx context.Context, req Request) ([]byte, error) {
	start := time.Now()

	prompt := llm.BuildSystemPrompt(req.BrandName) + "\n\n" + llm.BuildUserPrompt(req.InterviewText, req.RepairFeedback)
	raw, err := e.gen.Generate(ctx, prompt, llm.SchemaDescription())
	if err != nil {
		if common.KindOf(err) == common.KindInternal {
			// An unclassified generator failure is a model-client failure.
			err = common.NewPipelineError(common.KindModelUnavailable, "model client failed", err)
		}
		e.logger.Error("extract.generate_failed",
			"kind", common.KindOf(err), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	content := llm.StripCodeFences(raw)
	if llm.IsRefusal(content) {
		e.logger.Warn("extract.refusal_detected", "content_len", len(content))
		return nil, common.Errorf(common.KindMalformedResponse, "model declined to analyze the interview")
	}

	cleaned, dropped, err := llm.SanitizeCandidate([]byte(content))
	if err != nil {
		e.logger.Warn("extract.not_json", "error", err)
		return nil, common.NewPipelineError(common.KindMalformedResponse, "model output is not valid JSON", err)
	}
	if len(dropped) > 0 {
		e.logger.Warn("extract.sanitize_dropped_keys", "dropped", dropped)
	}

	e.logger.Debug("extract.candidate_ready",
		"bytes", len(cleaned),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cleaned, nil
}
