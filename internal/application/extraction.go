package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"auditools/internal/domain/entities"
	"auditools/internal/ports/input"
	"auditools/internal/ports/output"
	"auditools/pkg/textextract"
)

var _ input.ExtractionUseCase = (*ExtractionService)(nil)

// ExtractionPaths locate the inputs and outputs of an extraction run.
type ExtractionPaths struct {
	TemplatesDir string
	CSVPath      string
	ReportPath   string
}

type ExtractionService struct {
	paths  ExtractionPaths
	report output.ReportWriter
	logger *zap.Logger
}

// NewExtractionService creates the extraction use case. report may be nil to
// skip the text report.
func NewExtractionService(paths ExtractionPaths, report output.ReportWriter, logger *zap.Logger) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionService{paths: paths, report: report, logger: logger}
}

// Run scans the templates, appends the new texts to the CSV catalog and
// writes the report.
func (s *ExtractionService) Run(ctx context.Context) (*entities.ExtractionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("🔍 Extraction des textes", zap.String("templates", s.paths.TemplatesDir))
	res, err := textextract.ExtractDir(s.paths.TemplatesDir, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("📊 Textes uniques trouvés",
		zap.Int("templates", len(res.Templates)),
		zap.Int("unique", res.Unique.Len()),
		zap.Int("errors", len(res.Errors)))

	rec, err := textextract.ReconcileAndAppend(res.Unique.Texts(), s.paths.CSVPath, s.logger)
	if err != nil {
		return nil, fmt.Errorf("update catalog: %w", err)
	}
	res.Unique.MarkTranslated(rec.Existing)
	s.logger.Info("✅ Catalogue mis à jour", zap.String("csv", s.paths.CSVPath), zap.Int("new", rec.NewCount))

	report := &entities.ExtractionReport{
		Result:         res,
		Reconciliation: rec,
		CSVPath:        s.paths.CSVPath,
	}
	if s.report != nil && s.paths.ReportPath != "" {
		if err := s.report.Write(s.paths.ReportPath, report); err != nil {
			return report, fmt.Errorf("write report: %w", err)
		}
		report.ReportPath = s.paths.ReportPath
	}
	return report, nil
}
