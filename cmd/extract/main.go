// Command extract runs the Golden Circle pipeline over a local interview
// file, optionally several times against the same input to observe
// determinism.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brandforge/golden-circle/constants"
	"github.com/brandforge/golden-circle/internal/common"
	"github.com/brandforge/golden-circle/internal/llm/openai"
	"github.com/brandforge/golden-circle/internal/pipeline"
	"github.com/brandforge/golden-circle/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: extract <interview-file> [times]")
		os.Exit(2)
	}
	path := os.Args[1]
	times := 1
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	format, _ := constants.FormatForExtension(filepath.Ext(path))
	brandName := server.BrandNameFromFilename(path)

	cfg := common.LoadConfig()
	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	pipe := pipeline.New(client, cfg.Pipeline, logger)

	for i := 1; i <= times; i++ {
		runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		start := time.Now()

		result, err := pipe.ProduceGoldenCircle(runCtx, doc, format, brandName)
		cancel()

		if err != nil {
			logger.Error("extract.run.error", "iter", i, "kind", common.KindOf(err), "error", err)
			continue
		}
		logger.Info("extract.run.ok",
			"iter", i,
			"brand", result.BrandName,
			"why", result.GoldenCircle.Why,
			"how", result.GoldenCircle.How,
			"what", result.GoldenCircle.What,
			"attempts", result.Attempts,
			"truncated", result.Truncated,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}
