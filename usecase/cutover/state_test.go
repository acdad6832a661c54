package cutover

import "testing"

func TestState_Transitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
		ok   bool
	}{
		{StateIdle, StateSnapshotTaken, true},
		{StateSnapshotTaken, StateParityApplied, true},
		{StateParityApplied, StateNameserversSwitched, true},
		{StateNameserversSwitched, StateVerified, true},
		{StateNameserversSwitched, StateRollbackInProgress, true},
		{StateVerified, StateDone, true},
		{StateRollbackInProgress, StateRolledBack, true},

		{StateIdle, StateParityApplied, false},
		{StateIdle, StateNameserversSwitched, false},
		{StateSnapshotTaken, StateNameserversSwitched, false},
		{StateParityApplied, StateVerified, false},
		{StateVerified, StateRollbackInProgress, false},
		{StateRolledBack, StateSnapshotTaken, false},
		{StateDone, StateIdle, false},
		{StateNameserversSwitched, StateDone, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.ok {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
			}
		})
	}
}

func TestState_Terminal(t *testing.T) {
	for _, s := range []State{StateDone, StateRolledBack} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StateIdle, StateSnapshotTaken, StateParityApplied, StateNameserversSwitched, StateVerified, StateRollbackInProgress} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestReport_AdvanceEnforcesTable(t *testing.T) {
	r := &Report{FinalState: StateIdle}
	if err := r.advance(StateNameserversSwitched); err == nil {
		t.Errorf("skipping states should be rejected")
	}
	if err := r.advance(StateSnapshotTaken); err != nil {
		t.Errorf("legal transition rejected: %v", err)
	}
	if r.FinalState != StateSnapshotTaken {
		t.Errorf("FinalState = %s, want %s", r.FinalState, StateSnapshotTaken)
	}
}
