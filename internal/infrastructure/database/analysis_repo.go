package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"auditools/internal/domain"
	"auditools/internal/domain/entities"
	"auditools/internal/ports/output"
)

var _ output.AnalysisRepository = (*AnalysisRepository)(nil)

const selectAnalyses = `
	SELECT a.id, COALESCE(a.audit_id, 0), COALESCE(au.reference, ''), COALESCE(a.type_analyse, ''),
	       a.resultat, a.score_confiance, a.date_analyse
	FROM analyse_ia a
	LEFT JOIN audit au ON au.id = a.audit_id`

// AnalysisRepository implements output.AnalysisRepository on the web
// application's analyse_ia and audit tables.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates an AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

func (r *AnalysisRepository) FindAll(ctx context.Context) ([]entities.Analysis, error) {
	rows, err := r.pool.Query(ctx, selectAnalyses+` ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("find analyses: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("scan analyses: %w", err)
	}
	return out, nil
}

func (r *AnalysisRepository) FindRecent(ctx context.Context, limit int) ([]entities.Analysis, error) {
	rows, err := r.pool.Query(ctx, selectAnalyses+` ORDER BY a.date_analyse DESC NULLS LAST, a.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("find recent analyses: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("scan recent analyses: %w", err)
	}
	return out, nil
}

func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analyse_ia WHERE date_analyse < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old analyses: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *AnalysisRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM analyse_ia`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}

func (r *AnalysisRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(type_analyse, 'inconnu'), COUNT(id)
		FROM analyse_ia
		GROUP BY type_analyse`)
	if err != nil {
		return nil, fmt.Errorf("count analyses by type: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			typ string
			n   int64
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		out[typ] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count analyses by type: %w", err)
	}
	return out, nil
}

func (r *AnalysisRepository) CountByScoreBand(ctx context.Context) (entities.ScoreBuckets, error) {
	var b entities.ScoreBuckets
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE score_confiance >= $1),
			COUNT(*) FILTER (WHERE score_confiance >= $2 AND score_confiance < $1),
			COUNT(*) FILTER (WHERE score_confiance >= $3 AND score_confiance < $2),
			COUNT(*) FILTER (WHERE score_confiance < $3)
		FROM analyse_ia`,
		domain.ScoreExcellent, domain.ScoreBon, domain.ScoreMoyen,
	).Scan(&b.Excellent, &b.Bon, &b.Moyen, &b.Faible)
	if err != nil {
		return b, fmt.Errorf("count analyses by score: %w", err)
	}
	return b, nil
}

func (r *AnalysisRepository) TopAudits(ctx context.Context, limit int) ([]entities.AuditCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT au.reference, COUNT(a.id) AS analysis_count
		FROM audit au
		JOIN analyse_ia a ON a.audit_id = au.id
		GROUP BY au.id, au.reference
		ORDER BY analysis_count DESC, au.reference
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top audits: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.AuditCount, error) {
		var c entities.AuditCount
		err := row.Scan(&c.Audit, &c.Analyses)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan top audits: %w", err)
	}
	return out, nil
}

func (r *AnalysisRepository) UpdateMany(ctx context.Context, analyses []entities.Analysis) error {
	if len(analyses) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range analyses {
			a := &analyses[i]
			_, err := tx.Exec(ctx,
				`UPDATE analyse_ia SET resultat = $2, score_confiance = $3 WHERE id = $1`,
				int64(a.ID), nullableJSON(a.Result), a.Score,
			)
			if err != nil {
				return fmt.Errorf("update analysis %d: %w", a.ID, err)
			}
		}
		return nil
	})
}

// CreateAudit inserts an audit and returns its id.
func (r *AnalysisRepository) CreateAudit(ctx context.Context, reference string) (uint, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO audit (reference) VALUES ($1) RETURNING id`, reference).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create audit: %w", err)
	}
	return uint(id), nil
}

// Create inserts an analysis and sets its ID.
func (r *AnalysisRepository) Create(ctx context.Context, a *entities.Analysis) error {
	var auditID *int64
	if a.AuditID != 0 {
		id := int64(a.AuditID)
		auditID = &id
	}
	var typ *string
	if a.Type != "" {
		typ = &a.Type
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO analyse_ia (audit_id, type_analyse, resultat, score_confiance, date_analyse)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		auditID, typ, nullableJSON(a.Result), a.Score, timeToPgtypeTimestamptz(a.AnalysedAt),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	a.ID = uint(id)
	return nil
}

func scanAnalysis(row pgx.CollectableRow) (entities.Analysis, error) {
	var (
		a          entities.Analysis
		id         int64
		auditID    int64
		result     []byte
		analysedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &auditID, &a.AuditReference, &a.Type, &result, &a.Score, &analysedAt); err != nil {
		return a, err
	}
	a.ID = uint(id)
	a.AuditID = uint(auditID)
	if result != nil {
		a.Result = json.RawMessage(result)
	}
	a.AnalysedAt = pgtypeTimestamptzToTime(analysedAt)
	return a, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
