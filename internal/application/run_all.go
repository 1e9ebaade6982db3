package application

import (
	"context"

	"go.uber.org/zap"

	"auditools/internal/domain/entities"
)

// RunAllOptions drive the maintenance steps of RunAll.
type RunAllOptions struct {
	CleanupDays int
	StatsPath   string
	StatsFormat string
}

// RunAllReport gathers the outcome of every step. A step error never stops
// the following steps.
type RunAllReport struct {
	Environment *entities.EnvironmentReport
	Structure   *entities.StructureReport

	Connection    *entities.ConnectionReport
	ConnectionErr error

	Service    *entities.ServiceReport
	ServiceErr error

	Cleaned    int64
	CleanupErr error

	Stats     *entities.Stats
	StatsPath string
	StatsErr  error

	Repaired  int
	RepairErr error
}

// OK reports whether every step succeeded.
func (r *RunAllReport) OK() bool {
	return r.Environment.OK && r.Structure.OK &&
		r.ConnectionErr == nil && r.ServiceErr == nil &&
		r.CleanupErr == nil && r.StatsErr == nil && r.RepairErr == nil
}

// RunAll runs setup, structure, connection, service test, cleanup, export and
// repair in that order.
func (s *AnalysisService) RunAll(ctx context.Context, opts RunAllOptions) *RunAllReport {
	r := &RunAllReport{StatsPath: opts.StatsPath}

	r.Environment = s.SetupEnvironment()
	r.Structure = s.CheckProjectStructure()
	r.Connection, r.ConnectionErr = s.CheckConnection(ctx)
	r.Service, r.ServiceErr = s.TestService(ctx)

	r.Cleaned, r.CleanupErr = s.CleanupOldAnalyses(ctx, opts.CleanupDays)

	r.Stats, r.StatsErr = s.ExportStats(ctx)
	if r.StatsErr == nil && opts.StatsPath != "" {
		r.StatsErr = WriteStats(r.Stats, opts.StatsPath, opts.StatsFormat)
	}

	r.Repaired, r.RepairErr = s.RepairAnalyses(ctx)

	steps := []struct {
		name string
		err  error
	}{
		{"connection", r.ConnectionErr},
		{"service", r.ServiceErr},
		{"cleanup", r.CleanupErr},
		{"export", r.StatsErr},
		{"repair", r.RepairErr},
	}
	for _, step := range steps {
		if step.err != nil {
			s.logger.Warn("⚠️ Étape en échec", zap.String("step", step.name), zap.Error(step.err))
		}
	}
	return r
}
