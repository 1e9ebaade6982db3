package output

import (
	"context"

	"auditools/internal/domain/entities"
)

// Analyzer is the external AI API.
type Analyzer interface {
	Status() entities.AnalyzerStatus
	// ListModels returns the model identifiers exposed by the provider.
	ListModels(ctx context.Context) ([]string, error)
	// Probe runs a minimal analysis to check the service end to end.
	Probe(ctx context.Context) (*entities.ProbeResult, error)
}
