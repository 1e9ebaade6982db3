package application

import (
	"context"
	"slices"
	"time"

	"auditools/internal/domain"
	"auditools/internal/domain/entities"
)

type fakeRepo struct {
	analyses []entities.Analysis
	updated  []entities.Analysis
	cutoff   time.Time
	err      error
}

func (r *fakeRepo) FindAll(ctx context.Context) ([]entities.Analysis, error) {
	return slices.Clone(r.analyses), r.err
}

func (r *fakeRepo) FindRecent(ctx context.Context, limit int) ([]entities.Analysis, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := slices.Clone(r.analyses)
	slices.SortStableFunc(out, func(a, b entities.Analysis) int {
		return b.AnalysedAt.Compare(a.AnalysedAt)
	})
	return out[:min(limit, len(out))], nil
}

func (r *fakeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.cutoff = cutoff
	before := len(r.analyses)
	r.analyses = slices.DeleteFunc(r.analyses, func(a entities.Analysis) bool {
		return a.AnalysedAt.Before(cutoff)
	})
	return int64(before - len(r.analyses)), nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.analyses)), r.err
}

func (r *fakeRepo) CountByType(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, a := range r.analyses {
		typ := a.Type
		if typ == "" {
			typ = "inconnu"
		}
		out[typ]++
	}
	return out, r.err
}

func (r *fakeRepo) CountByScoreBand(ctx context.Context) (entities.ScoreBuckets, error) {
	var b entities.ScoreBuckets
	for _, a := range r.analyses {
		switch {
		case a.Score == nil:
		case *a.Score >= domain.ScoreExcellent:
			b.Excellent++
		case *a.Score >= domain.ScoreBon:
			b.Bon++
		case *a.Score >= domain.ScoreMoyen:
			b.Moyen++
		default:
			b.Faible++
		}
	}
	return b, r.err
}

func (r *fakeRepo) TopAudits(ctx context.Context, limit int) ([]entities.AuditCount, error) {
	return nil, r.err
}

func (r *fakeRepo) UpdateMany(ctx context.Context, analyses []entities.Analysis) error {
	r.updated = append(r.updated, analyses...)
	return r.err
}

type fakeAnalyzer struct {
	status   entities.AnalyzerStatus
	models   []string
	listErr  error
	probe    *entities.ProbeResult
	probeErr error
}

func (a *fakeAnalyzer) Status() entities.AnalyzerStatus { return a.status }

func (a *fakeAnalyzer) ListModels(ctx context.Context) ([]string, error) {
	return a.models, a.listErr
}

func (a *fakeAnalyzer) Probe(ctx context.Context) (*entities.ProbeResult, error) {
	return a.probe, a.probeErr
}

func realAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{status: entities.AnalyzerStatus{
		Provider:          "openai",
		Mode:              domain.ModeReal,
		APIKeyPresent:     true,
		ClientInitialised: true,
	}}
}

func ptr(v float64) *float64 { return &v }
