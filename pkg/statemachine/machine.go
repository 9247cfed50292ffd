package statemachine

import (
	"context"
	"fmt"
	"sync"
)

var _ StateMachine = (*Machine)(nil)

// Machine is a thread-safe in-memory StateMachine. Transitions are indexed
// by source state name, then event name.
type Machine struct {
	mu          sync.RWMutex
	initial     State
	current     State
	transitions map[string]map[string][]Transition
	observers   []Observer
}

func newMachine(initial State) *Machine {
	return &Machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
	}
}

func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in state.
func (m *Machine) Is(state State) bool {
	if state == nil {
		return false
	}
	return m.Current().Name() == state.Name()
}

// AddTransition registers a transition. Several transitions may share the
// same source and event; Fire takes the first whose guards all pass.
func (m *Machine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byEvent, ok := m.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		m.transitions[from.Name()] = byEvent
	}
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

// Fire takes the first eligible transition for event, runs its actions and
// moves to the target state.
func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current
	t, err := m.match(ctx, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, t.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	observers := m.observers
	m.mu.Unlock()

	for _, obs := range observers {
		obs(ctx, from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire would find an eligible transition.
func (m *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.match(ctx, event, data)
	return err == nil
}

// Reset returns the machine to its initial state without running actions.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
	return nil
}

// match must be called with the lock held.
func (m *Machine) match(ctx context.Context, event Event, data any) (*Transition, error) {
	state, name := m.current.Name(), event.Name()

	candidates := m.transitions[state][name]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(state, name)
	}

	for i := range candidates {
		if m.guardsPass(ctx, &candidates[i], event, data) {
			return &candidates[i], nil
		}
	}
	return nil, NewErrTransitionRejected(state, name)
}

func (m *Machine) guardsPass(ctx context.Context, t *Transition, event Event, data any) bool {
	for _, guard := range t.Guards {
		if guard != nil && !guard(ctx, m.current, event, data) {
			return false
		}
	}
	return true
}
