package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v5"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"auditools/internal/config"
	"auditools/internal/domain"
	"auditools/internal/domain/entities"
	"auditools/internal/ports/output"
	"auditools/pkg/retry"
)

var _ output.Analyzer = (*OpenAI)(nil)

// OpenAI talks to the OpenAI API (or any compatible endpoint).
type OpenAI struct {
	client *openai.Client
	opts   Options
	logger *zap.Logger
}

// NewOpenAI builds the adapter. No client is created when the key is missing
// or only enables simulation.
func NewOpenAI(opts Options, logger *zap.Logger) *OpenAI {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &OpenAI{opts: opts, logger: logger}
	if opts.usable() != nil {
		return a
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	a.client = openai.NewClientWithConfig(cfg)
	return a
}

func (a *OpenAI) Status() entities.AnalyzerStatus {
	return entities.AnalyzerStatus{
		Provider:          config.ProviderOpenAI,
		Mode:              a.opts.mode(),
		APIKeyPresent:     a.opts.APIKey != "",
		ClientInitialised: a.client != nil,
	}
}

func (a *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	if err := a.opts.usable(); err != nil {
		return nil, err
	}

	var ids []string
	err := retry.Do(ctx, a.opts.Retry, func(ctx context.Context) error {
		ctx, cancel := a.withTimeout(ctx)
		defer cancel()

		list, err := a.client.ListModels(ctx)
		if err != nil {
			a.logger.Warn("openai: liste des modèles en échec", zap.Error(err))
			return classify(err)
		}
		ids = ids[:0]
		for _, m := range list.Models {
			ids = append(ids, m.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list openai models: %w", err)
	}
	return ids, nil
}

func (a *OpenAI) Probe(ctx context.Context) (*entities.ProbeResult, error) {
	if err := a.opts.usable(); err != nil {
		if errors.Is(err, domain.ErrSimulationMode) {
			return SimulatedProbe(), nil
		}
		return nil, err
	}

	var content string
	err := retry.Do(ctx, a.opts.Retry, func(ctx context.Context) error {
		ctx, cancel := a.withTimeout(ctx)
		defer cancel()

		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: a.opts.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: probePrompt},
			},
			MaxCompletionTokens: 50,
		})
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return errors.New("no response from OpenAI")
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("openai probe: %w", err)
	}
	return parseProbe(content, a.opts.Model), nil
}

func (a *OpenAI) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.opts.Timeout)
}

// classify marks authentication and request errors as not worth retrying.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return backoff.Permanent(err)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return backoff.Permanent(err)
		}
	}
	return err
}
