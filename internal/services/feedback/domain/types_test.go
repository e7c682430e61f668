package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to State }{
		{StateNew, StateInvestigating},
		{StateInvestigating, StateFixProposed},
		{StateFixProposed, StateFixValidated},
		{StateFixValidated, StateFixDeployed},
		{StateInvestigating, StateRejected},
		{StateFixProposed, StateRejected},
	}
	for _, c := range allowed {
		if !c.from.CanTransition(c.to) {
			t.Errorf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to State }{
		{StateNew, StateFixProposed},
		{StateNew, StateFixDeployed},
		{StateInvestigating, StateFixValidated},
		{StateFixProposed, StateFixDeployed},
		{StateNew, StateRejected},
		{StateFixValidated, StateRejected},
		{StateFixDeployed, StateRejected},
		{StateRejected, StateNew},
		{StateRejected, StateRejected},
	}
	for _, c := range denied {
		if c.from.CanTransition(c.to) {
			t.Errorf("%s -> %s should be denied", c.from, c.to)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !StateFixDeployed.Terminal() || !StateRejected.Terminal() {
		t.Fatal("deployed and rejected are terminal")
	}
	if StateNew.Terminal() || StateFixProposed.Terminal() {
		t.Fatal("active states are not terminal")
	}
}
