package ai

import (
	"context"

	"go.uber.org/zap"

	"auditools/internal/config"
	"auditools/internal/ports/output"
	"auditools/pkg/retry"
)

// New returns the analyzer of the configured provider and a release func.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (output.Analyzer, func(), error) {
	r := retry.Config{MaxAttempts: cfg.AIRetryAttempts, Delay: cfg.AIRetryDelay, Backoff: true}

	if cfg.AIProvider == config.ProviderGemini {
		g, err := NewGemini(ctx, Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.AITimeout,
			Retry:   r,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	}

	o := NewOpenAI(Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.AITimeout,
		Retry:   r,
	}, logger)
	return o, func() {}, nil
}
