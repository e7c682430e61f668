//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "dragoman/internal/platform/errors"
	"dragoman/internal/platform/store"
	"dragoman/internal/services/feedback/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const reportsDDL = `
	CREATE TABLE IF NOT EXISTS feedback_reports (
		report_id      TEXT PRIMARY KEY,
		source_lang    TEXT NOT NULL,
		target_lang    TEXT NOT NULL,
		source_text    TEXT,
		displayed_text TEXT NOT NULL,
		note           TEXT,
		reported_by    TEXT,
		state          TEXT NOT NULL,
		rule_id        TEXT,
		detail         TEXT,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		leased_until   TIMESTAMPTZ
	)
`

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestFeedbackRepo_Lifecycle_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	if _, err := st.PG.Exec(ctx, reportsDDL); err != nil {
		t.Fatalf("create table: %v", err)
	}

	r := NewPG().Bind(st.PG)
	now := time.Now().UTC().Truncate(time.Microsecond)
	rep := domain.Report{
		ID:            "fb-int-1",
		SourceLang:    "fr",
		TargetLang:    "ar",
		SourceText:    "Le contrat définit les conditions entre les parties",
		DisplayedText: "يحدد العقد الشروط بين الطرفين Copy to clipboard",
		Note:          "interface text in my translation",
		ReportedBy:    "u-42",
		State:         domain.StateNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.Insert(ctx, rep); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := r.Get(ctx, rep.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DisplayedText != rep.DisplayedText || got.ReportedBy != "u-42" || got.State != domain.StateNew {
		t.Fatalf("roundtrip = %+v", got)
	}

	leased, err := r.LeaseNew(ctx, 10, time.Minute)
	if err != nil {
		t.Fatalf("LeaseNew: %v", err)
	}
	if len(leased) != 1 || leased[0].ID != rep.ID || leased[0].State != domain.StateInvestigating {
		t.Fatalf("leased = %+v", leased)
	}

	// the report is leased; a second sweep must come up empty
	again, err := r.LeaseNew(ctx, 10, time.Minute)
	if err != nil {
		t.Fatalf("LeaseNew: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("re-leased %d reports", len(again))
	}

	if err := r.UpdateState(ctx, rep.ID, domain.StateFixProposed, "fb-rule-x", "proposed pattern"); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	got, err = r.Get(ctx, rep.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != domain.StateFixProposed || got.RuleID != "fb-rule-x" {
		t.Fatalf("after update = %+v", got)
	}

	// rule id sticks when a later transition passes none
	if err := r.UpdateState(ctx, rep.ID, domain.StateFixValidated, "", "suite accepted"); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	got, _ = r.Get(ctx, rep.ID)
	if got.RuleID != "fb-rule-x" {
		t.Fatalf("RuleID = %q after empty update", got.RuleID)
	}

	// fix-validated cannot jump back to investigating; the guard in the
	// UPDATE must refuse without touching the row
	if err := r.UpdateState(ctx, rep.ID, domain.StateInvestigating, "", "backslide"); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	got, _ = r.Get(ctx, rep.ID)
	if got.State != domain.StateFixValidated || got.Detail == "backslide" {
		t.Fatalf("illegal transition mutated the row: %+v", got)
	}

	if err := r.UpdateState(ctx, "fb-missing", domain.StateRejected, "", "x"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := r.Get(ctx, "fb-missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
