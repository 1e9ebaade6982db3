package entities

import "auditools/pkg/textextract"

// ConnectionReport is the result of pinging the AI provider.
type ConnectionReport struct {
	Provider   string
	OK         bool
	ModelCount int
	// Highlighted holds at most three chat model identifiers.
	Highlighted []string
}

// ServiceReport is the result of the local AI service test.
type ServiceReport struct {
	Status AnalyzerStatus
	Probe  *ProbeResult
	// Fallback is set when the probe could not reach the provider and a
	// simulated result was used instead.
	Fallback bool
	OK       bool
}

// EnvironmentReport describes the AI configuration of the process.
type EnvironmentReport struct {
	APIKeyPresent bool
	MaskedKey     string
	ClientReady   bool
	OK            bool
}

// FileCheck is one required project file.
type FileCheck struct {
	Path    string
	Present bool
}

// StructureReport lists the required files of the web application.
type StructureReport struct {
	Root  string
	Files []FileCheck
	OK    bool
}

// ExtractionReport is the outcome of one template extraction run.
type ExtractionReport struct {
	Result         *textextract.Result
	Reconciliation *textextract.Reconciliation
	CSVPath        string
	ReportPath     string
}

// Untranslated returns the unique texts without known translation, in
// first-seen order.
func (r *ExtractionReport) Untranslated() []string {
	var out []string
	for _, text := range r.Result.Unique.Texts() {
		if _, ok := r.Reconciliation.Existing[text]; !ok {
			out = append(out, text)
		}
	}
	return out
}

// TranslatedCount is the number of unique texts with a known translation.
func (r *ExtractionReport) TranslatedCount() int {
	return r.Result.Unique.Len() - len(r.Untranslated())
}
