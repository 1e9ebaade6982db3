package domain

// Analyzer modes.
const (
	ModeSimulation = "simulation"
	ModeReal       = "reel"
)

// SimulationKeyPrefix marks an API key that only enables simulation.
const SimulationKeyPrefix = "mode-simulation"

// Score buckets used by the statistics export.
const (
	ScoreExcellent = 80.0
	ScoreBon       = 60.0
	ScoreMoyen     = 40.0
)

// DefaultScore replaces a missing confidence score during repair.
const DefaultScore = 50.0

// SimulatedScore is the confidence reported when no provider is called.
const SimulatedScore = 78.0
