// Package ai adapts the external AI APIs to the output.Analyzer port.
package ai

import (
	"encoding/json"
	"strings"
	"time"

	"auditools/internal/domain"
	"auditools/internal/domain/entities"
	"auditools/pkg/retry"
)

// probePrompt asks for a tiny structured answer so the probe stays cheap.
const probePrompt = `Tu es un assistant d'audit. Évalue la phrase suivante et réponds uniquement ` +
	`avec un objet JSON de la forme {"score_confiance": <nombre entre 0 et 100>}.

Phrase: "Le contrôle d'accès aux locaux est revu chaque trimestre."`

// Options are shared by every provider adapter.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Retry   retry.Config
}

func (o Options) mode() string {
	if strings.HasPrefix(o.APIKey, domain.SimulationKeyPrefix) {
		return domain.ModeSimulation
	}
	return domain.ModeReal
}

// usable returns the reason the key cannot reach the provider, if any.
func (o Options) usable() error {
	if o.APIKey == "" {
		return domain.ErrAPIKeyMissing
	}
	if o.mode() == domain.ModeSimulation {
		return domain.ErrSimulationMode
	}
	return nil
}

// SimulatedProbe is the result produced without calling any provider.
func SimulatedProbe() *entities.ProbeResult {
	score := domain.SimulatedScore
	return &entities.ProbeResult{Mode: domain.ModeSimulation, Score: &score}
}

// parseProbe reads the score out of the model answer. Models sometimes wrap
// the JSON object in prose or code fences.
func parseProbe(content, model string) *entities.ProbeResult {
	res := &entities.ProbeResult{Mode: domain.ModeReal, Model: model, Raw: content}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return res
	}
	var payload struct {
		Score *float64 `json:"score_confiance"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err == nil {
		res.Score = payload.Score
	}
	return res
}
