package domain

import "testing"

func TestOnlineStateFromPersona(t *testing.T) {
	tests := []struct {
		code   int
		expect OnlineState
	}{
		{0, StateOffline},
		{1, StateOnline},
		{2, StateBusy},
		{3, StateAway},
		{4, StateSnooze},
		{5, StateLookingToTrade},
		{6, StateLookingToPlay},
		{7, StateUnknown},
		{99, StateUnknown},
		{-1, StateUnknown},
	}

	for _, tt := range tests {
		if got := OnlineStateFromPersona(tt.code); got != tt.expect {
			t.Errorf("OnlineStateFromPersona(%d) = %s, want %s", tt.code, got, tt.expect)
		}
	}
}

func TestOutcomeKindString(t *testing.T) {
	tests := []struct {
		kind   OutcomeKind
		expect string
	}{
		{OutcomeSuccess, "success"},
		{OutcomeSoftFailure, "soft_failure"},
		{OutcomeHardFailure, "hard_failure"},
		{OutcomeKind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expect {
			t.Errorf("OutcomeKind(%d).String() = %q, want %q", tt.kind, got, tt.expect)
		}
	}
}

func TestOutcomeFailed(t *testing.T) {
	if Success(&Presence{}).Failed() {
		t.Error("Success outcome should not be failed")
	}
	if !SoftFailure("loading").Failed() {
		t.Error("SoftFailure outcome should be failed")
	}
	if !HardFailure("timeout").Failed() {
		t.Error("HardFailure outcome should be failed")
	}
}
