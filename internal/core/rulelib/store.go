package rulelib

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Store owns the master rule list and publishes compiled snapshots.
// Readers call Snapshot and never block; writers recompile under the
// activation lock and publish copy-on-write
type Store struct {
	mu     sync.Mutex // activation lock; held across regression gating
	master []Rule     // all rules including disabled
	ver    uint64
	cur    atomic.Pointer[Snapshot]
}

// NewStore compiles the given rules as version 1 and publishes them
func NewStore(rules []Rule) (*Store, error) {
	st := &Store{master: append([]Rule(nil), rules...), ver: 1}
	snap, err := compile(st.ver, st.master)
	if err != nil {
		return nil, err
	}
	st.cur.Store(snap)
	return st, nil
}

// Snapshot returns the active compiled rule set
func (st *Store) Snapshot() *Snapshot { return st.cur.Load() }

// Rules returns a copy of the master list (including disabled rules)
func (st *Store) Rules() []Rule {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]Rule(nil), st.master...)
}

// Trial compiles the current master list plus candidate rules without
// publishing. Used to evaluate a proposed fix before activation
func (st *Store) Trial(candidates ...Rule) (*Snapshot, error) {
	st.mu.Lock()
	trial := append(append([]Rule(nil), st.master...), candidates...)
	ver := st.ver
	st.mu.Unlock()
	return compile(ver, trial)
}

// Activate adds a candidate rule to the library after the gate accepts
// the trial snapshot. The activation lock is held for the whole gating
// run so two proposed fixes cannot race to publish inconsistent sets.
// A gate error blocks activation and is returned unchanged
func (st *Store) Activate(ctx context.Context, candidate Rule, gate func(context.Context, *Snapshot) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, r := range st.master {
		if r.ID == candidate.ID {
			return fmt.Errorf("rulelib: rule %s already exists", candidate.ID)
		}
	}

	trial := append(append([]Rule(nil), st.master...), candidate)
	snap, err := compile(st.ver+1, trial)
	if err != nil {
		return err
	}
	if gate != nil {
		if err := gate(ctx, snap); err != nil {
			return err
		}
	}

	st.master = trial
	st.ver++
	st.cur.Store(snap)
	return nil
}

// SetEnabled toggles a rule and republishes after the gate accepts the
// recompiled snapshot. Disabling is how a bad builtin is retired without
// deleting its lineage, and a toggle is as much a library change as an
// activation, so it runs the same gate under the same lock
func (st *Store) SetEnabled(ctx context.Context, id string, enabled bool, gate func(context.Context, *Snapshot) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	found := false
	next := append([]Rule(nil), st.master...)
	for i := range next {
		if next[i].ID == id {
			next[i].Enabled = enabled
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("rulelib: no rule %s", id)
	}

	snap, err := compile(st.ver+1, next)
	if err != nil {
		return err
	}
	if gate != nil {
		if err := gate(ctx, snap); err != nil {
			return err
		}
	}
	st.master = next
	st.ver++
	st.cur.Store(snap)
	return nil
}
