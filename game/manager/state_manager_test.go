package manager

import (
	"errors"
	"testing"
)

func TestStateTransitions(t *testing.T) {
	sm := NewStateManager()
	if sm.State() != StateMenu {
		t.Fatalf("initial state %s, want menu", sm.State())
	}

	steps := []struct {
		name string
		op   func() error
		want State
	}{
		{"start", sm.Start, StatePlaying},
		{"pause", sm.TogglePause, StatePaused},
		{"resume", sm.TogglePause, StatePlaying},
		{"end", sm.EndSession, StateGameOver},
		{"restart", sm.Restart, StatePlaying},
		{"end again", sm.EndSession, StateGameOver},
		{"menu", sm.ReturnToMenu, StateMenu},
		{"start again", sm.Start, StatePlaying},
		{"menu from playing", sm.ReturnToMenu, StateMenu},
	}

	for _, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if sm.State() != step.want {
			t.Fatalf("%s: state %s, want %s", step.name, sm.State(), step.want)
		}
	}
}

func TestInvalidTransitions(t *testing.T) {
	sm := NewStateManager()

	invalid := []struct {
		name string
		op   func() error
	}{
		{"pause from menu", sm.Pause},
		{"resume from menu", sm.Resume},
		{"end from menu", sm.EndSession},
		{"restart from menu", sm.Restart},
		{"menu from menu", sm.ReturnToMenu},
	}
	for _, tc := range invalid {
		if err := tc.op(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: err = %v, want ErrInvalidTransition", tc.name, err)
		}
	}
	if sm.State() != StateMenu {
		t.Fatalf("rejected transitions moved state to %s", sm.State())
	}

	sm.Start()
	if err := sm.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("start while playing: err = %v", err)
	}
}

func TestGameOverHookRunsBeforeObservers(t *testing.T) {
	sm := NewStateManager()
	var events []string

	sm.OnGameOver(func() {
		events = append(events, "settle:"+sm.State().String())
	})
	sm.OnTransition(func(from, to State) {
		events = append(events, from.String()+"->"+to.String())
	})

	sm.Start()
	sm.EndSession()
	if err := sm.EndSession(); err == nil {
		t.Fatal("second EndSession succeeded")
	}

	want := []string{"menu->playing", "settle:playing", "playing->gameover"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}
