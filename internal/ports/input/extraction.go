package input

import (
	"context"

	"auditools/internal/domain/entities"
)

type ExtractionUseCase interface {
	Run(ctx context.Context) (*entities.ExtractionReport, error)
}
