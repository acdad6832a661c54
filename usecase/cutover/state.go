package cutover

import "fmt"

// State is one node of the cutover state machine. The machine is linear
// with a single rollback branch:
//
//	Idle -> SnapshotTaken -> ParityApplied -> NameserversSwitched
//	     -> Verified -> Done
//	     -> RollbackInProgress -> RolledBack
type State string

const (
	StateIdle                State = "Idle"
	StateSnapshotTaken       State = "SnapshotTaken"
	StateParityApplied       State = "ParityApplied"
	StateNameserversSwitched State = "NameserversSwitched"
	StateVerified            State = "Verified"
	StateRollbackInProgress  State = "RollbackInProgress"
	StateDone                State = "Done"
	StateRolledBack          State = "RolledBack"
)

// transitions enumerates every legal edge.
var transitions = map[State][]State{
	StateIdle:                {StateSnapshotTaken},
	StateSnapshotTaken:       {StateParityApplied},
	StateParityApplied:       {StateNameserversSwitched},
	StateNameserversSwitched: {StateVerified, StateRollbackInProgress},
	StateVerified:            {StateDone},
	StateRollbackInProgress:  {StateRolledBack},
	StateDone:                nil,
	StateRolledBack:          nil,
}

// CanTransition reports whether s -> to is a legal edge.
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the machine stops at s.
func (s State) Terminal() bool { return len(transitions[s]) == 0 }

// advance moves the report to the next state, enforcing the transition
// table. A violation is a programming error in the orchestrator.
func (r *Report) advance(to State) error {
	if !r.FinalState.CanTransition(to) {
		return fmt.Errorf("illegal cutover transition %s -> %s", r.FinalState, to)
	}
	r.FinalState = to
	return nil
}
