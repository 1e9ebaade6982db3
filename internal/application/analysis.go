package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"auditools/internal/domain"
	"auditools/internal/domain/entities"
	"auditools/internal/ports/input"
	"auditools/internal/ports/output"
)

var _ input.AnalysisUseCase = (*AnalysisService)(nil)

const (
	topAuditsLimit      = 10
	recentActivityLimit = 5
	highlightedModels   = 3
)

// RequiredProjectFiles are the files the web application cannot run without.
var RequiredProjectFiles = []string{
	"app.py",
	"models.py",
	"requirements.txt",
	"services/analyse_ia.py",
}

type AnalysisService struct {
	repo     output.AnalysisRepository
	analyzer output.Analyzer
	apiKey   string
	appRoot  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalysisService wires the use cases. repo may be nil when no database is
// configured; the database use cases then return domain.ErrDatabaseNotConfigured.
func NewAnalysisService(
	repo output.AnalysisRepository,
	analyzer output.Analyzer,
	apiKey string,
	appRoot string,
	logger *zap.Logger,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		repo:     repo,
		analyzer: analyzer,
		apiKey:   apiKey,
		appRoot:  appRoot,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AnalysisService) CheckConnection(ctx context.Context) (*entities.ConnectionReport, error) {
	st := s.analyzer.Status()
	report := &entities.ConnectionReport{Provider: st.Provider}

	if !st.APIKeyPresent {
		return report, domain.ErrAPIKeyMissing
	}
	if st.Mode == domain.ModeSimulation {
		return report, domain.ErrSimulationMode
	}

	models, err := s.analyzer.ListModels(ctx)
	if err != nil {
		s.logger.Error("❌ Erreur connexion IA", zap.String("provider", st.Provider), zap.Error(err))
		return report, err
	}

	marker := "gpt"
	if st.Provider == "gemini" {
		marker = "gemini"
	}
	report.OK = true
	report.ModelCount = len(models)
	for _, id := range models {
		if len(report.Highlighted) == highlightedModels {
			break
		}
		if strings.Contains(id, marker) {
			report.Highlighted = append(report.Highlighted, id)
		}
	}
	s.logger.Info("✅ Connexion IA OK", zap.String("provider", st.Provider), zap.Int("models", len(models)))
	return report, nil
}

func (s *AnalysisService) TestService(ctx context.Context) (*entities.ServiceReport, error) {
	report := &entities.ServiceReport{Status: s.analyzer.Status()}

	probe, err := s.analyzer.Probe(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrAPIKeyMissing) && !errors.Is(err, domain.ErrAnalyzerUnavailable) {
			s.logger.Error("❌ Service IA non fonctionnel", zap.Error(err))
			return report, err
		}
		s.logger.Warn("⚠️ Service IA indisponible, résultat simulé", zap.Error(err))
		score := domain.SimulatedScore
		probe = &entities.ProbeResult{Mode: domain.ModeSimulation, Score: &score}
		report.Fallback = true
	}

	report.Probe = probe
	report.OK = probe != nil
	return report, nil
}

func (s *AnalysisService) SetupEnvironment() *entities.EnvironmentReport {
	st := s.analyzer.Status()
	report := &entities.EnvironmentReport{
		APIKeyPresent: st.APIKeyPresent,
		ClientReady:   st.ClientInitialised,
	}
	if !st.APIKeyPresent {
		return report
	}
	report.MaskedKey = MaskKey(s.apiKey)
	report.OK = st.ClientInitialised || st.Mode == domain.ModeSimulation
	return report
}

// MaskKey hides all but the last four characters of an API key.
func MaskKey(key string) string {
	runes := []rune(key)
	if len(runes) > 4 {
		runes = runes[len(runes)-4:]
	}
	return strings.Repeat("*", 20) + string(runes)
}

func (s *AnalysisService) CheckProjectStructure() *entities.StructureReport {
	report := &entities.StructureReport{Root: s.appRoot, OK: true}
	for _, file := range RequiredProjectFiles {
		_, err := os.Stat(filepath.Join(s.appRoot, filepath.FromSlash(file)))
		present := err == nil
		report.Files = append(report.Files, entities.FileCheck{Path: file, Present: present})
		if !present {
			report.OK = false
		}
	}
	return report
}

func (s *AnalysisService) CleanupOldAnalyses(ctx context.Context, days int) (int64, error) {
	if s.repo == nil {
		return 0, domain.ErrDatabaseNotConfigured
	}
	if days <= 0 {
		return 0, domain.ErrInvalidRetention
	}

	cutoff := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup analyses: %w", err)
	}
	s.logger.Info("🗑️ Nettoyage des analyses", zap.Int("days", days), zap.Time("cutoff", cutoff), zap.Int64("deleted", n))
	return n, nil
}

func (s *AnalysisService) ExportStats(ctx context.Context) (*entities.Stats, error) {
	if s.repo == nil {
		return nil, domain.ErrDatabaseNotConfigured
	}

	stats := &entities.Stats{}
	var err error
	if stats.TotalAnalyses, err = s.repo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ByType, err = s.repo.CountByType(ctx); err != nil {
		return nil, err
	}
	if stats.ByScore, err = s.repo.CountByScoreBand(ctx); err != nil {
		return nil, err
	}
	if stats.ByAudit, err = s.repo.TopAudits(ctx, topAuditsLimit); err != nil {
		return nil, err
	}
	if stats.ByAudit == nil {
		stats.ByAudit = []entities.AuditCount{}
	}

	recent, err := s.repo.FindRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity = make([]entities.RecentAnalysis, 0, len(recent))
	for _, a := range recent {
		line := entities.RecentAnalysis{
			ID:    a.ID,
			Audit: a.AuditReference,
			Type:  a.Type,
			Score: a.Score,
		}
		if line.Audit == "" {
			line.Audit = "N/A"
		}
		if !a.AnalysedAt.IsZero() {
			date := a.AnalysedAt
			line.Date = &date
		}
		stats.RecentActivity = append(stats.RecentActivity, line)
	}
	return stats, nil
}

func (s *AnalysisService) RepairAnalyses(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, domain.ErrDatabaseNotConfigured
	}

	analyses, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("repair analyses: %w", err)
	}

	var repaired []entities.Analysis
	for _, a := range analyses {
		if a.Repair() {
			repaired = append(repaired, a)
		}
	}
	if len(repaired) == 0 {
		return 0, nil
	}
	if err := s.repo.UpdateMany(ctx, repaired); err != nil {
		return 0, fmt.Errorf("repair analyses: %w", err)
	}
	s.logger.Info("🔧 Analyses réparées", zap.Int("count", len(repaired)))
	return len(repaired), nil
}
