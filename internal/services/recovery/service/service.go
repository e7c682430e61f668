// Package service implements the recovery coordinator. When a normal
// translation fails purity validation (or transport), the coordinator
// walks a fixed ladder: switch the prompting method, re-clean
// aggressively, fall back to the canned corpus, and as a last resort
// emit the emergency notice. The ladder never returns empty-handed
package service

import (
	"context"

	"dragoman/internal/adapters/llm"
	"dragoman/internal/core/cleaner"
	"dragoman/internal/core/normalize"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	mdom "dragoman/internal/services/monitor/domain"
	"dragoman/internal/services/recovery/canned"
	dom "dragoman/internal/services/recovery/domain"
)

// Service implements domain.CoordinatorPort
type Service struct {
	provider  llm.Provider
	rules     *rulelib.Store
	validator *purity.Validator
	norm      *normalize.Normalizer
	corpus    *canned.Corpus
}

// New constructs the coordinator
func New(provider llm.Provider, rules *rulelib.Store, v *purity.Validator, corpus *canned.Corpus) *Service {
	return &Service{
		provider:  provider,
		rules:     rules,
		validator: v,
		norm:      normalize.New(),
		corpus:    corpus,
	}
}

// candidate is a degraded-but-displayable output held while later rungs
// look for something better
type candidate struct {
	text     string
	score    purity.Score
	strategy string
	report   cleaner.Report
}

// Recover walks the ladder. Model-facing rungs are skipped for
// unsalvageable input; the emergency rung cannot fail
func (s *Service) Recover(ctx context.Context, in dom.Input) (dom.Result, error) {
	snap := s.rules.Snapshot()

	var res dom.Result
	var best *candidate

	keepBest := func(text string, score purity.Score, strategy string, rep cleaner.Report) {
		if best == nil || score.TargetRatio > best.score.TargetRatio {
			best = &candidate{text: text, score: score, strategy: strategy, report: rep}
		}
	}

	carry := func(text string, score purity.Score, strategy string, rep cleaner.Report) dom.Result {
		res.Text, res.Score, res.Strategy = text, score, strategy
		res.RulesApplied = rep.RuleIDs
		res.CharactersRemoved = rep.CharactersRemoved
		res.SubstitutionsMade = rep.SubstitutionsMade
		return res
	}

	if !in.SourceUnsalvageable {
		if err := ctx.Err(); err != nil {
			return dom.Result{}, err
		}

		// rung 1: same request, strict prompt
		text, score, rep, att := s.retranslate(ctx, in, snap)
		res.Attempts = append(res.Attempts, att)
		switch att.Verdict {
		case purity.VerdictPass:
			return carry(text, score, mdom.StrategySwitched, rep), nil
		case purity.VerdictDegraded:
			keepBest(text, score, mdom.StrategySwitched, rep)
		}

		// rung 2: aggressive re-clean of whatever contaminated output exists
		for _, raw := range []string{text, in.FirstOutput} {
			if raw == "" {
				continue
			}
			cleaned, score, rep, att, ok := s.reclean(raw, in, snap)
			res.Attempts = append(res.Attempts, att)
			if !ok {
				continue
			}
			if att.Verdict == purity.VerdictPass {
				return carry(cleaned, score, mdom.StrategyRecleaned, rep), nil
			}
			if att.Verdict == purity.VerdictDegraded {
				keepBest(cleaned, score, mdom.StrategyRecleaned, rep)
			}
		}

		// a degraded real translation beats a canned apology
		if best != nil {
			return carry(best.text, best.score, best.strategy, best.report), nil
		}
	}

	// rung 3: canned corpus. The stock text trades literal fidelity for
	// guaranteed purity, so the outcome is DEGRADED no matter how clean
	// the text itself scores
	if text, ok := s.corpus.Lookup(in.TargetLang, in.DomainHint); ok {
		score := s.validator.Validate(text, in.TargetLang)
		score.Verdict = purity.VerdictDegraded
		res.Attempts = append(res.Attempts, dom.Attempt{Strategy: mdom.StrategyCanned, Verdict: score.Verdict})
		return carry(text, score, mdom.StrategyCanned, cleaner.Report{}), nil
	}
	res.Attempts = append(res.Attempts, dom.Attempt{
		Strategy: mdom.StrategyCanned, Verdict: purity.VerdictReject, Detail: "no corpus entry",
	})

	// rung 4: the guaranteed per-family emergency notice. Never the
	// source text, which is what contaminated the pipeline to begin with
	text := s.corpus.Emergency(in.TargetLang)
	score := s.validator.Validate(text, in.TargetLang)
	res.Attempts = append(res.Attempts, dom.Attempt{Strategy: mdom.StrategyEmergency, Verdict: score.Verdict})
	res.PriorityReview = true
	return carry(text, score, mdom.StrategyEmergency, cleaner.Report{}), nil
}

// retranslate runs the strict-prompt model call and the normal
// clean+validate pipeline over its output
func (s *Service) retranslate(ctx context.Context, in dom.Input, snap *rulelib.Snapshot) (string, purity.Score, cleaner.Report, dom.Attempt) {
	att := dom.Attempt{Strategy: mdom.StrategySwitched}

	out, err := s.provider.Translate(ctx, llm.Request{
		SourceText: in.SourceText,
		SourceLang: in.SourceLang,
		TargetLang: in.TargetLang,
		DomainHint: in.DomainHint,
		Strategy:   llm.StrategyStrict,
	})
	if err != nil {
		att.Verdict = purity.VerdictReject
		att.Detail = err.Error()
		return "", purity.Score{}, cleaner.Report{}, att
	}

	text := s.norm.Normalize(out.Text)
	text, rep := cleaner.Clean(text, in.TargetLang, snap, false)
	if rep.Rejected {
		att.Verdict = purity.VerdictReject
		att.Detail = "cleaner flagged output as unsalvageable"
		return text, purity.Score{}, rep, att
	}

	score := s.validator.ValidateTranslation(in.SourceText, text, in.TargetLang)
	att.Verdict = score.Verdict
	return text, score, rep, att
}

// reclean runs the aggressive rule set over already-contaminated output
func (s *Service) reclean(raw string, in dom.Input, snap *rulelib.Snapshot) (string, purity.Score, cleaner.Report, dom.Attempt, bool) {
	att := dom.Attempt{Strategy: mdom.StrategyRecleaned}

	text := s.norm.Normalize(raw)
	text, rep := cleaner.Clean(text, in.TargetLang, snap, true)
	if rep.Rejected || text == "" {
		att.Verdict = purity.VerdictReject
		att.Detail = "nothing displayable survived aggressive cleaning"
		return "", purity.Score{}, rep, att, false
	}

	score := s.validator.ValidateTranslation(in.SourceText, text, in.TargetLang)
	att.Verdict = score.Verdict
	return text, score, rep, att, true
}
