package entities

import (
	"bytes"
	"encoding/json"
	"time"

	"auditools/internal/domain"
)

// originalDataLimit bounds the corrupted payload kept by Repair, in characters.
const originalDataLimit = 500

// Analysis is one AI analysis attached to an audit.
type Analysis struct {
	ID             uint
	AuditID        uint // 0 = no audit
	AuditReference string
	Type           string
	Result         json.RawMessage // nil = NULL
	Score          *float64        // nil = NULL
	AnalysedAt     time.Time       // zero = NULL
}

// Repair normalises a stored analysis in place and reports whether anything
// changed. A result stored as a JSON string is decoded when it holds JSON and
// wrapped in an error object otherwise; the score is forced into [0, 100].
func (a *Analysis) Repair() bool {
	repaired := a.repairResult()

	switch {
	case a.Score == nil:
		score := domain.DefaultScore
		a.Score = &score
		repaired = true
	case *a.Score < 0 || *a.Score > 100:
		score := min(max(*a.Score, 0), 100)
		a.Score = &score
		repaired = true
	}
	return repaired
}

func (a *Analysis) repairResult() bool {
	if len(a.Result) == 0 {
		return false
	}
	var raw string
	if err := json.Unmarshal(a.Result, &raw); err != nil || raw == "" {
		// Not a JSON string: already structured (or null).
		return false
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err == nil {
		a.Result = buf.Bytes()
		return true
	}

	runes := []rune(raw)
	if len(runes) > originalDataLimit {
		runes = runes[:originalDataLimit]
	}
	wrapped, _ := json.Marshal(map[string]string{
		"erreur":             "Format invalide",
		"donnees_originales": string(runes),
	})
	a.Result = wrapped
	return true
}
