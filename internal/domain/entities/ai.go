package entities

// AnalyzerStatus describes the configured AI client.
type AnalyzerStatus struct {
	Provider          string
	Mode              string
	APIKeyPresent     bool
	ClientInitialised bool
}

// ProbeResult is the outcome of a test analysis.
type ProbeResult struct {
	Mode  string
	Score *float64
	Model string
	Raw   string
}
