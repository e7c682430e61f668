package service

import (
	"context"
	"fmt"
	"time"

	"dragoman/internal/core/cleaner"
	"dragoman/internal/core/normalize"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	"dragoman/internal/platform/logger"
	"dragoman/internal/services/feedback/domain"
	rdom "dragoman/internal/services/regression/domain"

	"github.com/google/uuid"
)

// WorkerConfig controls the fix worker loop
type WorkerConfig struct {
	Interval    time.Duration
	Batch       int
	Lease       time.Duration
	Concurrency int
}

// Run starts the worker loop that turns new reports into rule fixes.
// Blocks until ctx is cancelled
func (s *Service) Run(ctx context.Context) error {
	log := logger.Named("feedback-worker")
	sem := make(chan struct{}, s.cfg.Concurrency)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reports, err := s.repo.LeaseNew(ctx, s.cfg.Batch, s.cfg.Lease)
			if err != nil {
				log.Error().Err(err).Msg("lease reports failed")
				continue
			}
			for i := range reports {
				sem <- struct{}{}
				r := reports[i]
				go func() {
					defer func() { <-sem }()
					if err := s.Process(ctx, r); err != nil {
						log.Warn().Err(err).Str("report_id", r.ID).Msg("report processing failed")
					}
				}()
			}
		}
	}
}

// Process runs one leased report through the fix lifecycle: mine a
// signature, propose a rule, gate it against the regression suite,
// activate it and mint a regression case. Exported so the worker can
// be driven synchronously in tests and batch tools
func (s *Service) Process(ctx context.Context, r domain.Report) error {
	log := logger.Named("feedback-worker")

	sig, ok := extractSignature(r.DisplayedText, r.TargetLang)
	if !ok {
		return s.repo.UpdateState(ctx, r.ID, domain.StateRejected, "",
			"no rule-worthy contamination signature in the displayed text")
	}

	rule := rulelib.Rule{
		ID:         "fb-rule-" + uuid.NewString(),
		Pattern:    sig,
		Action:     rulelib.ActionStrip,
		Priority:   50,
		TargetLang: r.TargetLang,
		Enabled:    true,
		Provenance: rulelib.ProvenanceFeedback,
		AddedAt:    time.Now().UTC(),
	}
	if err := s.repo.UpdateState(ctx, r.ID, domain.StateFixProposed, rule.ID,
		fmt.Sprintf("proposed pattern %s", sig)); err != nil {
		return err
	}

	// the fix must actually resolve what the user saw before it is
	// allowed anywhere near the live library
	if !s.resolves(rule, r) {
		return s.repo.UpdateState(ctx, r.ID, domain.StateRejected, rule.ID,
			"proposed rule does not resolve the reported text")
	}

	if err := s.rules.Activate(ctx, rule, s.gate()); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.repo.UpdateState(ctx, r.ID, domain.StateRejected, rule.ID,
			fmt.Sprintf("fix blocked: %v", err))
	}
	if err := s.repo.UpdateState(ctx, r.ID, domain.StateFixValidated, rule.ID,
		"regression suite accepted the fix"); err != nil {
		return err
	}

	if s.overlay != nil {
		// the rule is already live in memory; a failed write only affects
		// the next restart
		if err := s.overlay.Insert(ctx, rule); err != nil {
			log.Warn().Err(err).Str("rule_id", rule.ID).Msg("rule overlay write failed")
		}
	}

	snap := s.rules.Snapshot()
	if s.regression != nil {
		if err := s.mintCase(ctx, r, snap); err != nil {
			// the rule is live; a failed mint only loses future coverage
			log.Warn().Err(err).Str("report_id", r.ID).Msg("regression case mint failed")
		}
	}

	return s.repo.UpdateState(ctx, r.ID, domain.StateFixDeployed, rule.ID,
		fmt.Sprintf("rule active in library version %d", snap.Version))
}

// resolves replays the reported text under a trial snapshot carrying
// the candidate rule and reports whether cleaning now yields a
// displayable verdict
func (s *Service) resolves(rule rulelib.Rule, r domain.Report) bool {
	snap, err := s.rules.Trial(rule)
	if err != nil {
		return false
	}
	norm := normalize.New()
	text := norm.Normalize(r.DisplayedText)
	text, rep := cleaner.Clean(text, r.TargetLang, snap, false)
	if rep.Rejected {
		return false
	}
	return s.validator.ValidateTranslation(r.SourceText, text, r.TargetLang).Verdict != purity.VerdictReject
}

// gate adapts the regression runner to the activation gate shape; a nil
// runner means fixes activate ungated (tests and minimal deployments)
func (s *Service) gate() func(context.Context, *rulelib.Snapshot) error {
	if s.regression == nil {
		return nil
	}
	return s.regression.Gate
}

// mintCase freezes the report's scenario as a regression case so the
// fix can never silently regress
func (s *Service) mintCase(ctx context.Context, r domain.Report, snap *rulelib.Snapshot) error {
	norm := normalize.New()
	text := norm.Normalize(r.DisplayedText)
	text, rep := cleaner.Clean(text, r.TargetLang, snap, false)

	expect := purity.VerdictReject
	if !rep.Rejected {
		expect = s.validator.ValidateTranslation(r.SourceText, text, r.TargetLang).Verdict
	}

	_, err := s.regression.AddCase(ctx, rdom.Case{
		Name:             "feedback " + r.ID,
		SourceLang:       r.SourceLang,
		TargetLang:       r.TargetLang,
		SourceText:       r.SourceText,
		ContaminatedText: r.DisplayedText,
		ExpectVerdict:    expect,
		IncidentID:       r.ID,
	})
	return err
}
