// Package repo provides the regression case persistence surface
package repo

import (
	"context"

	"dragoman/internal/core/purity"
	"dragoman/internal/modkit/repokit"
	perr "dragoman/internal/platform/errors"
	"dragoman/internal/services/regression/domain"
)

// Repo is the regression persistence surface used by the service layer
type Repo interface {
	// Insert stores one case; the ID must already be assigned
	Insert(ctx context.Context, c domain.Case) error

	// List returns all stored cases ordered by creation time, retired
	// rows included
	List(ctx context.Context) ([]domain.Case, error)

	// Deactivate retires one case, keeping the row and the reason
	Deactivate(ctx context.Context, id, reason string) error
}

type (
	// PG is a Postgres implementation of the regression repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Insert(ctx context.Context, c domain.Case) error {
	const sql = `
		INSERT INTO regression_cases (
			case_id, name, source_lang, target_lang,
			source_text, contaminated_text, expect_verdict, min_purity,
			must_contain, incident_id, origin, created_at, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)
		ON CONFLICT (case_id) DO NOTHING
	`
	_, err := r.q.Exec(ctx, sql,
		c.ID, c.Name, c.SourceLang, c.TargetLang,
		c.SourceText, c.ContaminatedText, string(c.ExpectVerdict), c.MinPurity,
		c.MustContain, c.IncidentID, c.Origin, c.CreatedAt,
	)
	return err
}

func (r *queries) List(ctx context.Context) ([]domain.Case, error) {
	const sql = `
		SELECT case_id, name, source_lang, target_lang,
		       source_text, contaminated_text, expect_verdict, min_purity,
		       COALESCE(must_contain, ''), COALESCE(incident_id, ''),
		       origin, created_at, active, COALESCE(deactivated_reason, '')
		  FROM regression_cases
		 ORDER BY created_at ASC
	`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Case
	for rows.Next() {
		var c domain.Case
		var verdict string
		if err := rows.Scan(
			&c.ID, &c.Name, &c.SourceLang, &c.TargetLang,
			&c.SourceText, &c.ContaminatedText, &verdict, &c.MinPurity,
			&c.MustContain, &c.IncidentID,
			&c.Origin, &c.CreatedAt, &c.Active, &c.DeactivatedReason,
		); err != nil {
			return nil, err
		}
		c.ExpectVerdict = purity.Verdict(verdict)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *queries) Deactivate(ctx context.Context, id, reason string) error {
	const sql = `
		UPDATE regression_cases
		   SET active = FALSE, deactivated_reason = $2
		 WHERE case_id = $1 AND active
	`
	tag, err := r.q.Exec(ctx, sql, id, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("no active regression case %q", id)
	}
	return nil
}
