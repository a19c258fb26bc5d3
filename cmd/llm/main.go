package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joseph-ayodele/orders-intake/internal/catalog"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/core/llm"
	"github.com/joseph-ayodele/orders-intake/internal/core/quality"
)

// Runs the AI tier alone against one message several times, to compare providers and prompts.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 3 {
		logger.Error("usage: llm <catalog.xlsx> <message.txt> [times]")
		os.Exit(2)
	}
	times := 3
	if len(os.Args) >= 4 {
		if n, err := strconv.Atoi(os.Args[3]); err == nil && n > 0 {
			times = n
		}
	}

	cfg, err := common.LoadConfig(os.Getenv("ORDERS_CONFIG"))
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if cfg.LLM.Provider == "" || cfg.LLM.Provider == "none" {
		logger.Error("LLM_PROVIDER env var is required (openai, gemini or http)")
		os.Exit(2)
	}

	ctx := context.Background()
	cat, err := catalog.NewXLSXProvider(os.Args[1], "", logger).GetCatalog(ctx)
	if err != nil {
		logger.Error("load catalog", "error", err)
		os.Exit(1)
	}
	msg, err := os.ReadFile(os.Args[2])
	if err != nil {
		logger.Error("read message", "error", err)
		os.Exit(1)
	}

	client, err := llm.NewCompletionClient(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error("completion client", "error", err)
		os.Exit(1)
	}
	extractor := llm.NewExtractor(client, cfg.LLM.Timeout, logger)

	for i := 1; i <= times; i++ {
		start := time.Now()
		logger.Info("llm.run.start", "iter", i, "provider", cfg.LLM.Provider)

		order, err := extractor.Extract(ctx, string(msg), cat)
		if err != nil {
			logger.Error("llm.run.error", "iter", i, "err", err)
		} else {
			report := quality.Score(*order)
			logger.Info("llm.run.ok",
				"iter", i,
				"score", report.Score,
				"items", len(order.LineItems),
				"total", order.Total().String(),
				"warnings", report.Warnings,
				"errors", report.Errors,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		}

		time.Sleep(750 * time.Millisecond)
	}

	logger.Info("done", "times", times)
}
