// Package service implements the contamination feedback loop: users
// report contaminated output they saw, a background worker mines each
// report for a cleaning-rule signature, and validated fixes ship into
// the active rule library with a regression case minted alongside
package service

import (
	"context"
	"strings"
	"time"

	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	perr "dragoman/internal/platform/errors"
	"dragoman/internal/services/feedback/domain"
	"dragoman/internal/services/feedback/repo"
	rdom "dragoman/internal/services/regression/domain"
	rulesrepo "dragoman/internal/services/rules/repo"

	"github.com/google/uuid"
)

// Service implements domain.ReporterPort and hosts the fix worker
type Service struct {
	cfg        WorkerConfig
	repo       repo.Repo
	rules      *rulelib.Store
	validator  *purity.Validator
	regression rdom.RunnerPort
	overlay    rulesrepo.Repo // nil disables durable rule persistence
}

// New constructs the feedback service. overlay persists deployed rules
// across restarts and may be nil
func New(cfg WorkerConfig, r repo.Repo, rules *rulelib.Store, v *purity.Validator,
	regression rdom.RunnerPort, overlay rulesrepo.Repo,
) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 10
	}
	if cfg.Lease <= 0 {
		cfg.Lease = time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	return &Service{cfg: cfg, repo: r, rules: rules, validator: v, regression: regression, overlay: overlay}
}

// Submit files a new contamination report
func (s *Service) Submit(ctx context.Context, r domain.Report) (domain.Report, error) {
	if strings.TrimSpace(r.DisplayedText) == "" {
		return domain.Report{}, perr.InvalidArgf("displayed text is empty")
	}
	if r.SourceLang == "" || r.TargetLang == "" {
		return domain.Report{}, perr.InvalidArgf("source and target languages are required")
	}
	if r.SourceLang == r.TargetLang {
		return domain.Report{}, perr.InvalidArgf("source and target languages must differ")
	}

	r.ID = "fb-" + uuid.NewString()
	r.State = domain.StateNew
	r.RuleID = ""
	r.Detail = ""
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt

	if err := s.repo.Insert(ctx, r); err != nil {
		return domain.Report{}, err
	}
	return r, nil
}

// Status returns the report's lifecycle position
func (s *Service) Status(ctx context.Context, id string) (domain.Report, error) {
	if id == "" {
		return domain.Report{}, perr.InvalidArgf("report id is required")
	}
	return s.repo.Get(ctx, id)
}
