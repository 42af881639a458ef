package manager

import (
	"errors"
	"fmt"
)

// State is a phase of the game screen
type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionFunc observes a state change
type TransitionFunc func(from, to State)

// StateManager is the menu/playing/paused/gameover machine. Observers are
// registered after construction so the owner can wire callbacks that refer
// back to itself.
type StateManager struct {
	state       State
	transitions []TransitionFunc
	gameOver    []func()
}

func NewStateManager() *StateManager {
	return &StateManager{state: StateMenu}
}

func (sm *StateManager) State() State {
	return sm.state
}

func (sm *StateManager) IsPlaying() bool {
	return sm.state == StatePlaying
}

// OnTransition registers fn to run after every state change
func (sm *StateManager) OnTransition(fn TransitionFunc) {
	sm.transitions = append(sm.transitions, fn)
}

// OnGameOver registers fn to run once per session end, before transition
// observers see the gameover state
func (sm *StateManager) OnGameOver(fn func()) {
	sm.gameOver = append(sm.gameOver, fn)
}

// Start begins a session from the menu or the game over screen
func (sm *StateManager) Start() error {
	return sm.transition(StatePlaying, StateMenu, StateGameOver)
}

// Restart begins a fresh session from any non-menu state
func (sm *StateManager) Restart() error {
	return sm.transition(StatePlaying, StatePlaying, StatePaused, StateGameOver)
}

func (sm *StateManager) Pause() error {
	return sm.transition(StatePaused, StatePlaying)
}

func (sm *StateManager) Resume() error {
	return sm.transition(StatePlaying, StatePaused)
}

// TogglePause flips between playing and paused
func (sm *StateManager) TogglePause() error {
	if sm.state == StatePaused {
		return sm.Resume()
	}
	return sm.Pause()
}

// EndSession moves a running session to game over
func (sm *StateManager) EndSession() error {
	if sm.state != StatePlaying && sm.state != StatePaused {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sm.state, StateGameOver)
	}
	for _, fn := range sm.gameOver {
		fn()
	}
	return sm.transition(StateGameOver, StatePlaying, StatePaused)
}

// ReturnToMenu abandons whatever is running. A session quit this way is
// not settled.
func (sm *StateManager) ReturnToMenu() error {
	return sm.transition(StateMenu, StatePlaying, StatePaused, StateGameOver)
}

func (sm *StateManager) transition(to State, from ...State) error {
	allowed := false
	for _, f := range from {
		if sm.state == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sm.state, to)
	}

	prev := sm.state
	sm.state = to
	for _, fn := range sm.transitions {
		fn(prev, to)
	}
	return nil
}
