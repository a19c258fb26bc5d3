package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/core/llm/gemini"
	"github.com/joseph-ayodele/orders-intake/internal/core/llm/openai"
)

// NewCompletionClient builds the configured provider wrapped in a rate limiter.
// It returns nil, nil when the completion tier is disabled.
func NewCompletionClient(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (CompletionClient, error) {
	var client CompletionClient
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "openai":
		client = openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		client = c
	case "http":
		client = NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.Timeout, logger)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", common.ErrInvalidInput, cfg.Provider)
	}
	return NewRateLimited(client, cfg.RatePerSecond, cfg.Burst), nil
}
