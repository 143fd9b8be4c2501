package domain

import "testing"

func TestNextStatusTransitions(t *testing.T) {
	tests := []struct {
		name       string
		current    Status
		intent     bool
		briefReady bool
		heuristic  int
		want       Status
	}{
		{"new without signals starts qualifying", StatusNew, false, false, 0, StatusQualifying},
		{"qualifying holds without signals", StatusQualifying, false, false, 0, StatusQualifying},
		{"intent escalates", StatusQualifying, true, false, 40, StatusPendingOwnerApproval},
		{"ready brief parks below threshold", StatusQualifying, false, true, 45, StatusBriefReady},
		{"ready brief escalates at threshold", StatusQualifying, false, true, 70, StatusPendingOwnerApproval},
		{"brief ready holds", StatusBriefReady, false, true, 45, StatusBriefReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatus(tt.current, tt.intent, tt.briefReady, tt.heuristic)
			if got != tt.want {
				t.Errorf("NextStatus(%s) = %s, want %s", tt.current, got, tt.want)
			}
		})
	}
}

func TestNextStatusFrozenStates(t *testing.T) {
	for _, current := range []Status{StatusPendingOwnerApproval, StatusApproved, StatusRejected} {
		got := NextStatus(current, true, true, 100)
		if got != current {
			t.Errorf("expected %s to stay frozen, got %s", current, got)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusApproved.Valid() {
		t.Error("APPROVED should be valid")
	}
	if Status("WAITING").Valid() {
		t.Error("unknown status should be invalid")
	}
}
