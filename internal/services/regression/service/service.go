// Package service implements the regression suite: a library of
// contamination cases replayed through the cleaning pipeline. The suite
// doubles as the activation gate for proposed rule fixes; a fix that
// breaks any previously working case never ships
package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"dragoman/internal/core/cleaner"
	"dragoman/internal/core/normalize"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	perr "dragoman/internal/platform/errors"
	"dragoman/internal/platform/logger"
	"dragoman/internal/platform/store"
	dom "dragoman/internal/services/regression/domain"
	"dragoman/internal/services/regression/repo"

	"github.com/google/uuid"
)

//go:embed cases.json
var seedJSON []byte

type seedFile struct {
	Version int        `json:"version"`
	Cases   []dom.Case `json:"cases"`
}

// loadSeed parses the embedded case library
func loadSeed() ([]dom.Case, error) {
	var f seedFile
	if err := json.Unmarshal(seedJSON, &f); err != nil {
		return nil, fmt.Errorf("regression seed: %w", err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("regression seed: unsupported version %d", f.Version)
	}
	for i, c := range f.Cases {
		if c.ID == "" || c.Name == "" || c.ContaminatedText == "" || c.ExpectVerdict == "" {
			return nil, fmt.Errorf("regression seed: case %d is incomplete", i)
		}
		if c.MinPurity < 0 || c.MinPurity > 1 {
			return nil, fmt.Errorf("regression seed: case %d min_purity out of range", i)
		}
		f.Cases[i].Origin = "seed"
		f.Cases[i].Active = true
	}
	return f.Cases, nil
}

// Service implements domain.RunnerPort
type Service struct {
	rules     *rulelib.Store
	validator *purity.Validator
	norm      *normalize.Normalizer
	repo      repo.Repo        // nil when Postgres is not wired
	ch        store.Clickhouse // nil when the run sink is disabled

	seed     []dom.Case
	interval time.Duration

	mu      sync.Mutex
	mem     []dom.Case        // minted cases when repo is nil
	retired map[string]string // runtime retirement overlay for seed cases
}

// Option tweaks the constructed runner
type Option func(*Service)

// WithInterval sets the scheduled replay interval used by Run
func WithInterval(d time.Duration) Option {
	return func(s *Service) { s.interval = d }
}

// New constructs the regression runner. pg and ch may be nil
func New(rules *rulelib.Store, v *purity.Validator, pg repo.Repo, ch store.Clickhouse, opts ...Option) (*Service, error) {
	seed, err := loadSeed()
	if err != nil {
		return nil, err
	}
	s := &Service{
		rules:     rules,
		validator: v,
		norm:      normalize.New(),
		repo:      pg,
		ch:        ch,
		seed:      seed,
		interval:  time.Hour,
		retired:   map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Cases returns the seed library plus every minted case, retired rows
// included
func (s *Service) Cases(ctx context.Context) ([]dom.Case, error) {
	out := append([]dom.Case(nil), s.seed...)
	if s.repo != nil {
		stored, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, stored...)
	} else {
		s.mu.Lock()
		out = append(out, s.mem...)
		s.mu.Unlock()
	}

	s.mu.Lock()
	for i := range out {
		if reason, ok := s.retired[out[i].ID]; ok {
			out[i].Active = false
			out[i].DeactivatedReason = reason
		}
	}
	s.mu.Unlock()
	return out, nil
}

// Deactivate retires a case with a justification. Stored cases are
// retired durably; seed cases are retired for the process lifetime,
// since the embedded pack only changes with a release
func (s *Service) Deactivate(ctx context.Context, id, reason string) error {
	if id == "" || reason == "" {
		return perr.InvalidArgf("case id and reason are required")
	}
	if s.repo != nil {
		err := s.repo.Deactivate(ctx, id, reason)
		if err == nil {
			return nil
		}
		if !perr.IsCode(err, perr.ErrorCodeNotFound) {
			return err
		}
		// fall through for seed case ids, which are not stored rows
	}
	cases, err := s.Cases(ctx)
	if err != nil {
		return err
	}
	for _, c := range cases {
		if c.ID != id {
			continue
		}
		s.mu.Lock()
		s.retired[id] = reason
		s.mu.Unlock()
		return nil
	}
	return perr.NotFoundf("no regression case %q", id)
}

// AddCase mints a new replayable case. Called by the feedback pipeline
// when a fix is deployed so the scenario can never silently regress
func (s *Service) AddCase(ctx context.Context, c dom.Case) (dom.Case, error) {
	if c.ContaminatedText == "" || c.TargetLang == "" || c.ExpectVerdict == "" {
		return dom.Case{}, perr.InvalidArgf("regression case is incomplete")
	}
	if c.ID == "" {
		c.ID = "case-" + uuid.NewString()
	}
	if c.Origin == "" {
		c.Origin = "feedback"
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.Active = true
	if s.repo != nil {
		if err := s.repo.Insert(ctx, c); err != nil {
			return dom.Case{}, err
		}
		return c, nil
	}
	s.mu.Lock()
	s.mem = append(s.mem, c)
	s.mu.Unlock()
	return c, nil
}

// RunSuite replays the whole library against the active snapshot
func (s *Service) RunSuite(ctx context.Context) (dom.SuiteResult, error) {
	return s.runWith(ctx, s.rules.Snapshot(), true)
}

// Gate replays the library against a trial snapshot. Any regressed case
// blocks activation with a conflict error naming the first failure
func (s *Service) Gate(ctx context.Context, snap *rulelib.Snapshot) error {
	res, err := s.runWith(ctx, snap, false)
	if err != nil {
		return err
	}
	if !res.Ok() {
		first := ""
		for _, r := range res.Results {
			if !r.Passed {
				first = r.Name
				break
			}
		}
		return perr.RuleConflictf("rule change regresses %d of %d cases, first: %s",
			res.Failed, res.Total, first)
	}
	return nil
}

func (s *Service) runWith(ctx context.Context, snap *rulelib.Snapshot, sink bool) (dom.SuiteResult, error) {
	started := time.Now()
	cases, err := s.Cases(ctx)
	if err != nil {
		return dom.SuiteResult{}, err
	}

	res := dom.SuiteResult{RulesVersion: snap.Version}
	for _, c := range cases {
		if ctx.Err() != nil {
			return dom.SuiteResult{}, ctx.Err()
		}
		if !c.Active {
			continue
		}
		res.Total++
		cr := s.replay(c, snap)
		if cr.Passed {
			res.Passed++
		} else {
			res.Failed++
		}
		res.Results = append(res.Results, cr)
	}
	res.DurationMs = time.Since(started).Milliseconds()

	if sink && s.ch != nil {
		go s.sinkRun(res)
	}
	return res, nil
}

// replay pushes one case's contaminated text through normalize, clean
// and validate, exactly as the gateway would
func (s *Service) replay(c dom.Case, snap *rulelib.Snapshot) dom.CaseResult {
	cr := dom.CaseResult{CaseID: c.ID, Name: c.Name, Expected: c.ExpectVerdict}

	text := s.norm.Normalize(c.ContaminatedText)
	text, rep := cleaner.Clean(text, c.TargetLang, snap, false)
	cr.RulesApplied = rep.RuleIDs

	score := s.validator.ValidateTranslation(c.SourceText, text, c.TargetLang)
	cr.TargetRatio = score.TargetRatio
	if rep.Rejected {
		cr.Got = purity.VerdictReject
	} else {
		cr.Got = score.Verdict
	}

	// a verdict at or above the expected one passes: a rule change that
	// lifts a DEGRADED case to PASS is an improvement, not a regression
	cr.Passed = verdictRank(cr.Got) >= verdictRank(cr.Expected)
	if !cr.Passed {
		cr.Detail = fmt.Sprintf("verdict %s, expected %s", cr.Got, cr.Expected)
		return cr
	}
	if c.MinPurity > 0 && cr.TargetRatio < c.MinPurity {
		cr.Passed = false
		cr.Detail = fmt.Sprintf("purity %.3f below required %.3f", cr.TargetRatio, c.MinPurity)
		return cr
	}
	if c.MustContain != "" && !strings.Contains(text, c.MustContain) {
		cr.Passed = false
		cr.Detail = fmt.Sprintf("cleaned text lost %q", c.MustContain)
	}
	return cr
}

func verdictRank(v purity.Verdict) int {
	switch v {
	case purity.VerdictPass:
		return 2
	case purity.VerdictDegraded:
		return 1
	default:
		return 0
	}
}

// Run replays the suite on a schedule so drift from unrelated changes
// is caught between rule activations. Blocks until ctx is done
func (s *Service) Run(ctx context.Context) error {
	log := logger.Named("regression")
	t := time.NewTicker(s.interval)
	defer t.Stop()

	log.Info().Dur("interval", s.interval).Msg("scheduled regression replay started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			res, err := s.RunSuite(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Error().Err(err).Msg("scheduled replay failed")
				continue
			}
			ev := log.Info()
			if !res.Ok() {
				ev = log.Error()
			}
			ev.Uint64("rules_version", res.RulesVersion).
				Int("total", res.Total).
				Int("failed", res.Failed).
				Msg("scheduled replay complete")
		}
	}
}

func (s *Service) sinkRun(res dom.SuiteResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := []any{
		time.Now().UTC(), res.RulesVersion,
		uint32(res.Total), uint32(res.Passed), uint32(res.Failed),
		res.DurationMs,
	}
	if err := s.ch.Insert(ctx, "regression_runs", [][]any{row}); err != nil {
		logger.Named("regression").Warn().Err(err).Msg("run sink write failed")
	}
}
