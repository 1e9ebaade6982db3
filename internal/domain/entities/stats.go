package entities

import "time"

// Stats is the exported summary of stored analyses.
type Stats struct {
	TotalAnalyses  int64            `json:"total_analyses" yaml:"total_analyses"`
	ByType         map[string]int64 `json:"by_type" yaml:"by_type"`
	ByScore        ScoreBuckets     `json:"by_score" yaml:"by_score"`
	ByAudit        []AuditCount     `json:"by_audit" yaml:"by_audit"`
	RecentActivity []RecentAnalysis `json:"recent_activity" yaml:"recent_activity"`
}

// ScoreBuckets counts analyses per confidence band. NULL scores are in none.
type ScoreBuckets struct {
	Excellent int64 `json:"excellent" yaml:"excellent"`
	Bon       int64 `json:"bon" yaml:"bon"`
	Moyen     int64 `json:"moyen" yaml:"moyen"`
	Faible    int64 `json:"faible" yaml:"faible"`
}

// AuditCount is the number of analyses of one audit.
type AuditCount struct {
	Audit    string `json:"audit" yaml:"audit"`
	Analyses int64  `json:"analyses" yaml:"analyses"`
}

// RecentAnalysis is a line of the recent activity list.
type RecentAnalysis struct {
	ID    uint       `json:"id" yaml:"id"`
	Audit string     `json:"audit" yaml:"audit"`
	Type  string     `json:"type" yaml:"type"`
	Score *float64   `json:"score" yaml:"score"`
	Date  *time.Time `json:"date" yaml:"date"`
}
