// Package service implements the quality monitor: a fixed ring of the
// most recent outcomes, aggregated on demand. The ring is the source of
// truth for alerting; ClickHouse (when wired) keeps the long tail for
// offline analysis and is strictly best effort
package service

import (
	"context"
	"sync"
	"time"

	"dragoman/internal/platform/logger"
	"dragoman/internal/platform/store"
	dom "dragoman/internal/services/monitor/domain"
)

// Config controls the window and alerting
type Config struct {
	// Window is how many recent outcomes the ring holds
	Window int
	// FallbackAlert is the fallback-rate threshold that flips health to alert
	FallbackAlert float64
	// MinSample suppresses alerts until the ring has at least this many outcomes
	MinSample int
	// SinkTimeout bounds each ClickHouse write
	SinkTimeout time.Duration
}

// Service implements domain.RecorderPort and domain.ReaderPort
type Service struct {
	cfg Config
	ch  store.Clickhouse // nil when the sink is disabled

	mu   sync.Mutex
	ring []dom.Outcome
	next int
	n    int
}

// New constructs a monitor service. ch may be nil
func New(cfg Config, ch store.Clickhouse) *Service {
	if cfg.Window <= 0 {
		cfg.Window = 500
	}
	if cfg.FallbackAlert <= 0 {
		cfg.FallbackAlert = 0.25
	}
	if cfg.MinSample <= 0 {
		cfg.MinSample = 20
	}
	if cfg.SinkTimeout <= 0 {
		cfg.SinkTimeout = 5 * time.Second
	}
	return &Service{cfg: cfg, ch: ch, ring: make([]dom.Outcome, cfg.Window)}
}

// Record appends an outcome to the ring and streams it to the sink.
// Sink failures are logged and never surface to the request path
func (s *Service) Record(_ context.Context, o dom.Outcome) {
	if o.At.IsZero() {
		o.At = time.Now().UTC()
	}

	s.mu.Lock()
	s.ring[s.next] = o
	s.next = (s.next + 1) % len(s.ring)
	if s.n < len(s.ring) {
		s.n++
	}
	s.mu.Unlock()

	if s.ch != nil {
		go s.sink(o)
	}
}

func (s *Service) sink(o dom.Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SinkTimeout)
	defer cancel()

	review := uint8(0)
	if o.PriorityReview {
		review = 1
	}
	row := []any{
		o.At, o.SourceLang, o.TargetLang, o.Verdict, o.Strategy,
		o.TargetRatio, o.RulesVersion, o.DurationMs, review,
	}
	if err := s.ch.Insert(ctx, "translation_outcomes", [][]any{row}); err != nil {
		logger.Named("monitor").Warn().Err(err).Msg("outcome sink write failed")
	}
}

// Stats aggregates the current ring
func (s *Service) Stats(_ context.Context) dom.Stats {
	s.mu.Lock()
	window := s.snapshotLocked()
	s.mu.Unlock()

	st := dom.Stats{
		WindowSize: len(s.ring),
		Recorded:   len(window),
		ByPair:     make(map[string]dom.PairStats),
	}
	st.Overall = aggregate(window)

	byPair := make(map[string][]dom.Outcome)
	for _, o := range window {
		byPair[o.LangPair()] = append(byPair[o.LangPair()], o)
		if o.RulesVersion > st.RulesVersion {
			st.RulesVersion = o.RulesVersion
		}
	}
	for pair, xs := range byPair {
		st.ByPair[pair] = aggregate(xs)
	}

	st.AlertActive = s.alert(st.Overall, len(window))
	return st
}

// Health condenses the ring into an ok/alert signal
func (s *Service) Health(ctx context.Context) dom.Health {
	st := s.Stats(ctx)
	h := dom.Health{
		Status:         "ok",
		FallbackRate:   st.Overall.FallbackRate,
		Threshold:      s.cfg.FallbackAlert,
		Recorded:       st.Recorded,
		PriorityReview: st.Overall.PriorityReview,
	}
	if st.AlertActive {
		h.Status = "alert"
	}
	return h
}

func (s *Service) alert(overall dom.PairStats, n int) bool {
	return n >= s.cfg.MinSample && overall.FallbackRate > s.cfg.FallbackAlert
}

// snapshotLocked copies the filled part of the ring; caller holds mu
func (s *Service) snapshotLocked() []dom.Outcome {
	out := make([]dom.Outcome, 0, s.n)
	for i := 0; i < s.n; i++ {
		out = append(out, s.ring[i])
	}
	return out
}

func aggregate(xs []dom.Outcome) dom.PairStats {
	ps := dom.PairStats{Total: len(xs)}
	if len(xs) == 0 {
		return ps
	}
	var pass, degraded, fallback int
	var ratioSum float64
	for _, o := range xs {
		switch o.Verdict {
		case "PASS":
			pass++
		case "DEGRADED":
			degraded++
		}
		if o.FallbackUsed() {
			fallback++
		}
		if o.PriorityReview {
			ps.PriorityReview++
		}
		ratioSum += o.TargetRatio
	}
	n := float64(len(xs))
	ps.PassRate = float64(pass) / n
	ps.DegradedRate = float64(degraded) / n
	ps.FallbackRate = float64(fallback) / n
	ps.MeanTargetRatio = ratioSum / n
	return ps
}
