// Package service implements the translation gateway: the single entry
// point that calls the model, cleans and validates the output, and
// hands failures to the recovery coordinator. Callers never see raw
// model output; whatever comes back from Translate is safe to display
package service

import (
	"context"
	"time"

	"dragoman/internal/adapters/llm"
	"dragoman/internal/core/cleaner"
	"dragoman/internal/core/normalize"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	perr "dragoman/internal/platform/errors"
	"dragoman/internal/platform/logger"
	dom "dragoman/internal/services/gateway/domain"
	mdom "dragoman/internal/services/monitor/domain"
	rdom "dragoman/internal/services/recovery/domain"
)

// Service implements domain.TranslatorPort
type Service struct {
	provider  llm.Provider
	rules     *rulelib.Store
	validator *purity.Validator
	norm      *normalize.Normalizer
	recoverer rdom.CoordinatorPort
	recorder  mdom.RecorderPort
}

// New constructs the gateway service
func New(provider llm.Provider, rules *rulelib.Store, v *purity.Validator,
	recoverer rdom.CoordinatorPort, recorder mdom.RecorderPort,
) *Service {
	return &Service{
		provider:  provider,
		rules:     rules,
		validator: v,
		norm:      normalize.New(),
		recoverer: recoverer,
		recorder:  recorder,
	}
}

// Translate runs the full pipeline for one request. The returned error
// is non-nil only for malformed intake (missing or equal languages) or
// context cancellation; quality and transport failures, empty source
// included, are absorbed by the recovery ladder
func (s *Service) Translate(ctx context.Context, req dom.Request) (dom.Result, error) {
	started := time.Now()
	log := logger.C(logger.WithRequest(ctx, "", req.SourceLang+"-"+req.TargetLang))

	req.SourceText = s.norm.Normalize(req.SourceText)
	if err := validateRequest(req); err != nil {
		return dom.Result{}, err
	}

	snap := s.rules.Snapshot()

	// empty, wrong-script or letterless source cannot be fixed by
	// calling the model; route straight to the corpus rungs
	if s.validator.Validate(req.SourceText, req.SourceLang).Verdict == purity.VerdictReject {
		log.Warn().Msg("source failed script check; skipping model")
		return s.recover(ctx, req, rdom.Input{
			SourceText: req.SourceText, SourceLang: req.SourceLang,
			TargetLang: req.TargetLang, DomainHint: req.DomainHint,
			SourceUnsalvageable: true,
		}, snap, "", started)
	}

	// one standard attempt; a transport failure falls to the
	// coordinator's method-switching rung rather than a blind retry of
	// the identical request
	out, err := s.provider.Translate(ctx, llm.Request{
		SourceText: req.SourceText,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		DomainHint: req.DomainHint,
		Strategy:   llm.StrategyStandard,
	})
	if err != nil {
		if ctx.Err() != nil {
			return dom.Result{}, ctx.Err()
		}
		log.Warn().Err(err).Msg("model transport failed; entering recovery")
		return s.recover(ctx, req, rdom.Input{
			SourceText: req.SourceText, SourceLang: req.SourceLang,
			TargetLang: req.TargetLang, DomainHint: req.DomainHint,
		}, snap, "", started)
	}

	text := s.norm.Normalize(out.Text)
	text, rep := cleaner.Clean(text, req.TargetLang, snap, false)

	if !rep.Rejected {
		score := s.validator.ValidateTranslation(req.SourceText, text, req.TargetLang)
		if score.Verdict == purity.VerdictPass {
			res := dom.Result{
				Text:              text,
				Score:             score,
				Verdict:           score.Verdict,
				Strategy:          mdom.StrategyStandard,
				Model:             out.Model,
				RulesVersion:      snap.Version,
				RulesApplied:      rep.RuleIDs,
				CharactersRemoved: rep.CharactersRemoved,
				SubstitutionsMade: rep.SubstitutionsMade,
				DurationMs:        time.Since(started).Milliseconds(),
			}
			s.record(ctx, req, res)
			return res, nil
		}
		// DEGRADED is only acceptable from the recovery rungs that are
		// allowed to degrade; the first pass must hit the strict bar
		log.Warn().
			Str("verdict", string(score.Verdict)).
			Float64("target_ratio", score.TargetRatio).
			Uint64("rules_version", snap.Version).
			Msg("output below the strict purity bar; entering recovery")
	} else {
		log.Warn().Str("rule", rep.RejectedBy).Msg("cleaner flagged output; entering recovery")
	}

	return s.recover(ctx, req, rdom.Input{
		SourceText: req.SourceText, SourceLang: req.SourceLang,
		TargetLang: req.TargetLang, DomainHint: req.DomainHint,
		FirstOutput: text,
	}, snap, out.Model, started)
}

func (s *Service) recover(ctx context.Context, req dom.Request, in rdom.Input,
	snap *rulelib.Snapshot, model string, started time.Time,
) (dom.Result, error) {
	rec, err := s.recoverer.Recover(ctx, in)
	if err != nil {
		return dom.Result{}, err
	}

	res := dom.Result{
		Text:              rec.Text,
		Score:             rec.Score,
		Verdict:           rec.Score.Verdict,
		Strategy:          rec.Strategy,
		RulesVersion:      snap.Version,
		RulesApplied:      rec.RulesApplied,
		CharactersRemoved: rec.CharactersRemoved,
		SubstitutionsMade: rec.SubstitutionsMade,
		Attempts:          rec.Attempts,
		PriorityReview:    rec.PriorityReview,
		DurationMs:        time.Since(started).Milliseconds(),
	}
	if !rec.FallbackUsed() {
		res.Model = model
	}
	s.record(ctx, req, res)
	return res, nil
}

func (s *Service) record(ctx context.Context, req dom.Request, res dom.Result) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, mdom.Outcome{
		At:             time.Now().UTC(),
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		Verdict:        string(res.Verdict),
		Strategy:       res.Strategy,
		TargetRatio:    res.Score.TargetRatio,
		RulesVersion:   res.RulesVersion,
		DurationMs:     res.DurationMs,
		PriorityReview: res.PriorityReview,
	})
}

// validateRequest rejects malformed intake. An empty source text is NOT
// an intake error: the non-empty output guarantee covers it, so it
// flows through the unsalvageable-source path to the corpus rungs
func validateRequest(req dom.Request) error {
	if req.SourceLang == "" || req.TargetLang == "" {
		return perr.InvalidArgf("source and target languages are required")
	}
	if req.SourceLang == req.TargetLang {
		return perr.InvalidArgf("source and target languages must differ")
	}
	return nil
}
