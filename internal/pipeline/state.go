// SPDX-License-Identifier: MPL-2.0

package pipeline

import "fmt"

// State identifies where a pipeline run is in its lifecycle.
type State string

const (
	// StateInit is the pre-validation starting state.
	StateInit State = "init"
	// StateGenerating covers layout synthesis in the workspace.
	StateGenerating State = "generating"
	// StateGating covers quality gate execution.
	StateGating State = "gating"
	// StateBuilding covers distribution artifact production.
	StateBuilding State = "building"
	// StatePublishing covers the optional index upload.
	StatePublishing State = "publishing"
	// StateDone is the successful terminal state. A publish failure
	// still terminates here; it is recorded in the report instead.
	StateDone State = "done"
	// StateFailed is the absorbing failure state, reachable from any
	// non-terminal state.
	StateFailed State = "failed"
)

// validTransitions encodes the legal state machine edges.
var validTransitions = map[State][]State{
	StateInit:       {StateGenerating, StateFailed},
	StateGenerating: {StateGating, StateFailed},
	StateGating:     {StateBuilding, StateFailed},
	StateBuilding:   {StatePublishing, StateDone, StateFailed},
	StatePublishing: {StateDone, StateFailed},
	StateDone:       {},
	StateFailed:     {},
}

// Terminal reports whether the state ends the run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// stateMachine tracks and enforces the run lifecycle. Transitions outside
// the edge table indicate a programming error in the orchestrator and
// surface loudly rather than silently corrupting the run.
type stateMachine struct {
	current State
}

func newStateMachine() *stateMachine {
	return &stateMachine{current: StateInit}
}

// to advances the machine, enforcing the transition table.
func (m *stateMachine) to(next State) error {
	for _, allowed := range validTransitions[m.current] {
		if next == allowed {
			m.current = next
			return nil
		}
	}
	return fmt.Errorf("illegal pipeline transition %s -> %s", m.current, next)
}
