package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"auditools/internal/config"
	"auditools/internal/domain"
	"auditools/internal/domain/entities"
	"auditools/internal/ports/output"
	"auditools/pkg/retry"
)

var _ output.Analyzer = (*Gemini)(nil)

// Gemini talks to the Google Generative AI API.
type Gemini struct {
	client *genai.Client
	opts   Options
	logger *zap.Logger
}

// NewGemini builds the adapter. No client is created when the key is missing
// or only enables simulation.
func NewGemini(ctx context.Context, opts Options, logger *zap.Logger) (*Gemini, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gemini{opts: opts, logger: logger}
	if opts.usable() != nil {
		return g, nil
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return g, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		_ = g.client.Close()
	}
}

func (g *Gemini) Status() entities.AnalyzerStatus {
	return entities.AnalyzerStatus{
		Provider:          config.ProviderGemini,
		Mode:              g.opts.mode(),
		APIKeyPresent:     g.opts.APIKey != "",
		ClientInitialised: g.client != nil,
	}
}

func (g *Gemini) ListModels(ctx context.Context) ([]string, error) {
	if err := g.opts.usable(); err != nil {
		return nil, err
	}
	if g.client == nil {
		return nil, domain.ErrAnalyzerUnavailable
	}

	var names []string
	err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) error {
		ctx, cancel := g.withTimeout(ctx)
		defer cancel()

		names = names[:0]
		it := g.client.ListModels(ctx)
		for {
			m, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			if err != nil {
				g.logger.Warn("gemini: liste des modèles en échec", zap.Error(err))
				return err
			}
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("list gemini models: %w", err)
	}
	return names, nil
}

func (g *Gemini) Probe(ctx context.Context) (*entities.ProbeResult, error) {
	if err := g.opts.usable(); err != nil {
		if errors.Is(err, domain.ErrSimulationMode) {
			return SimulatedProbe(), nil
		}
		return nil, err
	}
	if g.client == nil {
		return nil, domain.ErrAnalyzerUnavailable
	}

	var content strings.Builder
	err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) error {
		ctx, cancel := g.withTimeout(ctx)
		defer cancel()

		model := g.client.GenerativeModel(g.opts.Model)
		resp, err := model.GenerateContent(ctx, genai.Text(probePrompt))
		if err != nil {
			return err
		}
		content.Reset()
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if txt, ok := part.(genai.Text); ok {
					content.WriteString(string(txt))
				}
			}
		}
		if content.Len() == 0 {
			return errors.New("empty response from Gemini")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gemini probe: %w", err)
	}
	return parseProbe(content.String(), g.opts.Model), nil
}

func (g *Gemini) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.opts.Timeout)
}
