// SPDX-License-Identifier: MPL-2.0

package pipeline

import "testing"

func TestStateMachineHappyPath(t *testing.T) {
	m := newStateMachine()
	for _, next := range []State{StateGenerating, StateGating, StateBuilding, StatePublishing, StateDone} {
		if err := m.to(next); err != nil {
			t.Fatalf("to(%s): %v", next, err)
		}
	}
	if !m.current.Terminal() {
		t.Errorf("current = %s, want terminal", m.current)
	}
}

func TestStateMachineBuildCanSkipPublishing(t *testing.T) {
	m := newStateMachine()
	for _, next := range []State{StateGenerating, StateGating, StateBuilding, StateDone} {
		if err := m.to(next); err != nil {
			t.Fatalf("to(%s): %v", next, err)
		}
	}
}

func TestStateMachineFailedIsReachableFromAnyActiveState(t *testing.T) {
	paths := [][]State{
		{StateFailed},
		{StateGenerating, StateFailed},
		{StateGenerating, StateGating, StateFailed},
		{StateGenerating, StateGating, StateBuilding, StateFailed},
		{StateGenerating, StateGating, StateBuilding, StatePublishing, StateFailed},
	}
	for _, path := range paths {
		m := newStateMachine()
		for _, next := range path {
			if err := m.to(next); err != nil {
				t.Fatalf("path %v: to(%s): %v", path, next, err)
			}
		}
	}
}

func TestStateMachineRejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		next State
	}{
		{"skip generation", nil, StateGating},
		{"skip gates", []State{StateGenerating}, StateBuilding},
		{"backwards", []State{StateGenerating, StateGating}, StateGenerating},
		{"leave done", []State{StateGenerating, StateGating, StateBuilding, StateDone}, StatePublishing},
		{"leave failed", []State{StateFailed}, StateGenerating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newStateMachine()
			for _, next := range tt.path {
				if err := m.to(next); err != nil {
					t.Fatal(err)
				}
			}
			if err := m.to(tt.next); err == nil {
				t.Errorf("to(%s) from %s succeeded, want rejection", tt.next, m.current)
			}
		})
	}
}
