package input

import (
	"context"

	"auditools/internal/domain/entities"
)

type AnalysisUseCase interface {
	CheckConnection(ctx context.Context) (*entities.ConnectionReport, error)
	TestService(ctx context.Context) (*entities.ServiceReport, error)
	SetupEnvironment() *entities.EnvironmentReport
	CheckProjectStructure() *entities.StructureReport
	CleanupOldAnalyses(ctx context.Context, days int) (int64, error)
	ExportStats(ctx context.Context) (*entities.Stats, error)
	RepairAnalyses(ctx context.Context) (int, error)
}
