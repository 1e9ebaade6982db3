package output

import "auditools/internal/domain/entities"

// ReportWriter persists the human-readable extraction report.
type ReportWriter interface {
	Write(path string, report *entities.ExtractionReport) error
}
