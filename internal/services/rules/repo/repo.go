// Package repo persists the cleaning rule overlay. Builtin rules ship
// embedded with the binary; rules minted by the feedback loop are
// stored here so a deployed fix survives restarts without a rebuild
package repo

import (
	"context"

	"dragoman/internal/core/rulelib"
	"dragoman/internal/modkit/repokit"
)

// Repo is the rule overlay persistence surface
type Repo interface {
	// Insert stores one overlay rule; replays of the same rule ID are
	// ignored
	Insert(ctx context.Context, r rulelib.Rule) error

	// List returns every stored overlay rule ordered by creation time
	List(ctx context.Context) ([]rulelib.Rule, error)
}

type (
	// PG is a Postgres implementation of the rule overlay repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Insert(ctx context.Context, rule rulelib.Rule) error {
	const sql = `
		INSERT INTO cleaning_rules (
			rule_id, pattern, action, replacement, priority,
			target_lang, aggressive, enabled, provenance, added_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (rule_id) DO NOTHING
	`
	_, err := r.q.Exec(ctx, sql,
		rule.ID, rule.Pattern, string(rule.Action), rule.Replacement, rule.Priority,
		rule.TargetLang, rule.Aggressive, rule.Enabled, string(rule.Provenance), rule.AddedAt,
	)
	return err
}

func (r *queries) List(ctx context.Context) ([]rulelib.Rule, error) {
	const sql = `
		SELECT rule_id, pattern, action, COALESCE(replacement, ''), priority,
		       COALESCE(target_lang, ''), aggressive, enabled, provenance, added_at
		  FROM cleaning_rules
		 ORDER BY added_at ASC
	`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rulelib.Rule
	for rows.Next() {
		var (
			rule               rulelib.Rule
			action, provenance string
		)
		if err := rows.Scan(
			&rule.ID, &rule.Pattern, &action, &rule.Replacement, &rule.Priority,
			&rule.TargetLang, &rule.Aggressive, &rule.Enabled, &provenance, &rule.AddedAt,
		); err != nil {
			return nil, err
		}
		rule.Action = rulelib.Action(action)
		rule.Provenance = rulelib.Provenance(provenance)
		out = append(out, rule)
	}
	return out, rows.Err()
}
