package repo

import (
	"sort"
	"testing"

	"dragoman/internal/services/feedback/domain"
)

func TestLegalPriorStates(t *testing.T) {
	cases := []struct {
		next domain.State
		want []string
	}{
		{domain.StateInvestigating, []string{"new"}},
		{domain.StateFixProposed, []string{"investigating"}},
		{domain.StateFixValidated, []string{"fix-proposed"}},
		{domain.StateFixDeployed, []string{"fix-validated"}},
		{domain.StateRejected, []string{"fix-proposed", "investigating"}},
		{domain.StateNew, nil},
	}
	for _, tc := range cases {
		got := legalPriorStates(tc.next)
		sort.Strings(got)
		if len(got) != len(tc.want) {
			t.Fatalf("legalPriorStates(%s) = %v, want %v", tc.next, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("legalPriorStates(%s) = %v, want %v", tc.next, got, tc.want)
			}
		}
	}
}
