// Package pipeline turns an interview document into a validated Golden
// Circle summary: load → normalize → schema-constrained extraction with a
// bounded validation/repair loop. The pipeline is stateless between
// invocations; concurrent requests need no coordination.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brandforge/golden-circle/constants"
	"github.com/brandforge/golden-circle/internal/common"
	"github.com/brandforge/golden-circle/internal/docload"
	"github.com/brandforge/golden-circle/internal/llm"
	"github.com/brandforge/golden-circle/internal/normalize"
)

// Result is the pipeline's terminal success value.
type Result struct {
	BrandName    string
	GoldenCircle llm.GoldenCircle
	// Truncated flags that the interview text exceeded the prompt budget
	// and was cut at a sentence boundary.
	Truncated bool
	// Attempts is the number of generation requests issued, including
	// corrective re-prompts.
	Attempts int
}

// Pipeline coordinates document loading, normalization, and structured
// extraction.
type Pipeline struct {
	loader *docload.Loader
	gen    llm.Generator
	cfg    common.PipelineConfig
	logger *slog.Logger
}

func New(gen llm.Generator, cfg common.PipelineConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		loader: docload.New(logger),
		gen:    gen,
		cfg:    cfg,
		logger: logger,
	}
}

// ProduceGoldenCircle runs the full extraction for one interview document.
// brandName may be empty, in which case the model infers the brand from the
// interview.
func (p *Pipeline) ProduceGoldenCircle(ctx context.Context, doc []byte, declared constants.Format, brandName string) (*Result, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	logger := p.logger.With("req_id", rid)
	start := time.Now()

	logger.Info("pipeline.run.start",
		"declared_format", string(declared),
		"doc_bytes", len(doc),
		"brand_name", brandName,
	)

	text, err := p.loader.Load(doc, declared)
	if err != nil {
		logger.Error("pipeline.load.failed", "kind", common.KindOf(err), "error", err)
		return nil, err
	}

	norm := normalize.Normalize(text, p.cfg.MaxPromptChars, logger)

	loop := newRepairLoop(NewExtractor(p.gen, logger), p.cfg.MaxRepairAttempts, logger)
	gc, err := loop.run(ctx, Request{
		InterviewText: norm.Text,
		BrandName:     brandName,
	})
	if err != nil {
		logger.Error("pipeline.run.failed",
			"kind", common.KindOf(err), "error", err,
			"attempts", loop.calls,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Info("pipeline.run.ok",
		"attempts", loop.calls,
		"truncated", norm.Truncated,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		BrandName:    brandName,
		GoldenCircle: gc,
		Truncated:    norm.Truncated,
		Attempts:     loop.calls,
	}, nil
}
