package statemachine

import "context"

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Action runs while a transition is in progress. Returning an error aborts
// the transition and leaves the machine in its previous state.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard decides whether a transition may be taken for the given data.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Observer is told about every completed transition.
type Observer func(ctx context.Context, from, to State, event Event)

// Transition defines a state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// StateMachine defines the finite state machine operations.
type StateMachine interface {
	Current() State
	Is(state State) bool
	AddTransition(from, to State, event Event, guards []Guard, actions []Action) error
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	Reset() error
}

// StringState is a string-backed State.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent is a string-backed Event.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
