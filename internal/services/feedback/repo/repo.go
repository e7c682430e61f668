// Package repo provides the feedback report persistence surface
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"dragoman/internal/modkit/repokit"
	perr "dragoman/internal/platform/errors"
	"dragoman/internal/services/feedback/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the feedback persistence surface used by the service layer
// and the fix worker
type Repo interface {
	Insert(ctx context.Context, r domain.Report) error
	Get(ctx context.Context, id string) (domain.Report, error)

	// LeaseNew leases up to limit reports in the new state, moving them
	// to investigating so concurrent workers never double-process
	LeaseNew(ctx context.Context, limit int, leaseFor time.Duration) ([]domain.Report, error)

	// UpdateState advances a report and records the rule and detail
	UpdateState(ctx context.Context, id string, state domain.State, ruleID, detail string) error
}

type (
	// PG is a Postgres implementation of the feedback repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Insert(ctx context.Context, rep domain.Report) error {
	const sql = `
		INSERT INTO feedback_reports (
			report_id, source_lang, target_lang, source_text,
			displayed_text, note, reported_by, state, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err := r.q.Exec(ctx, sql,
		rep.ID, rep.SourceLang, rep.TargetLang, rep.SourceText,
		rep.DisplayedText, rep.Note, rep.ReportedBy, string(rep.State), rep.CreatedAt,
	)
	return err
}

const reportColumns = `
	report_id, source_lang, target_lang, COALESCE(source_text, ''),
	displayed_text, COALESCE(note, ''), COALESCE(reported_by, ''), state,
	COALESCE(rule_id, ''), COALESCE(detail, ''), created_at, updated_at
`

func scanReport(row interface{ Scan(...any) error }) (domain.Report, error) {
	var rep domain.Report
	var state string
	err := row.Scan(
		&rep.ID, &rep.SourceLang, &rep.TargetLang, &rep.SourceText,
		&rep.DisplayedText, &rep.Note, &rep.ReportedBy, &state,
		&rep.RuleID, &rep.Detail, &rep.CreatedAt, &rep.UpdatedAt,
	)
	rep.State = domain.State(state)
	return rep, err
}

func (r *queries) Get(ctx context.Context, id string) (domain.Report, error) {
	rep, err := scanReport(r.q.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM feedback_reports WHERE report_id = $1`, id))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, perr.NotFoundf("report %s", id)
		}
		return domain.Report{}, err
	}
	return rep, nil
}

func (r *queries) LeaseNew(ctx context.Context, limit int, leaseFor time.Duration) ([]domain.Report, error) {
	const sql = `
		WITH ready AS (
			SELECT report_id
			  FROM feedback_reports
			 WHERE state = 'new'
			   AND (leased_until IS NULL OR leased_until <= now())
			 ORDER BY created_at ASC
			 LIMIT $1
			 FOR UPDATE SKIP LOCKED
		), upd AS (
			UPDATE feedback_reports f
			   SET state = 'investigating',
			       leased_until = now() + $2::interval,
			       updated_at = now()
			 WHERE f.report_id IN (SELECT report_id FROM ready)
			RETURNING f.*
		)
		SELECT ` + reportColumns + ` FROM upd
	`
	rows, err := r.q.Query(ctx, sql, limit, leaseFor.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// legalPriorStates lists the states a report may be in for a move to
// next to be legal. Deriving it from the lifecycle keeps the SQL guard
// and domain.State.CanTransition from drifting apart
func legalPriorStates(next domain.State) []string {
	all := []domain.State{
		domain.StateNew, domain.StateInvestigating, domain.StateFixProposed,
		domain.StateFixValidated, domain.StateFixDeployed, domain.StateRejected,
	}
	var out []string
	for _, s := range all {
		if s.CanTransition(next) {
			out = append(out, string(s))
		}
	}
	return out
}

func (r *queries) UpdateState(ctx context.Context, id string, state domain.State, ruleID, detail string) error {
	const sql = `
		UPDATE feedback_reports
		   SET state = $2,
		       rule_id = COALESCE(NULLIF($3, ''), rule_id),
		       detail = $4,
		       leased_until = NULL,
		       updated_at = now()
		 WHERE report_id = $1
		   AND state = ANY($5)
	`
	tag, err := r.q.Exec(ctx, sql, id, string(state), ruleID, detail, legalPriorStates(state))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		cur, getErr := r.Get(ctx, id)
		if getErr != nil {
			return getErr
		}
		return perr.Conflictf("report %s cannot move from %s to %s", id, cur.State, state)
	}
	return nil
}
