package output

import (
	"context"
	"time"

	"auditools/internal/domain/entities"
)

type AnalysisRepository interface {
	FindAll(ctx context.Context) ([]entities.Analysis, error)
	FindRecent(ctx context.Context, limit int) ([]entities.Analysis, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	CountByScoreBand(ctx context.Context) (entities.ScoreBuckets, error)
	TopAudits(ctx context.Context, limit int) ([]entities.AuditCount, error)
	// UpdateMany writes result and score of every analysis in one transaction.
	UpdateMany(ctx context.Context, analyses []entities.Analysis) error
}
