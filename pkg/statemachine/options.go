package statemachine

import (
	"errors"
	"fmt"
)

// Option configures a state machine during construction.
type Option func(*Machine) error

// TransitionOption configures guards and actions of one transition.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	guards  []Guard
	actions []Action
}

// New creates a state machine starting in initial.
func New(initial State, opts ...Option) (*Machine, error) {
	if initial == nil {
		return nil, errors.New("statemachine: initial state cannot be nil")
	}

	m := newMachine(initial)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on a configuration error.
func MustNew(initial State, opts ...Option) *Machine {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// WithTransition adds a transition.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(m *Machine) error {
		cfg := &transitionConfig{}
		for _, opt := range opts {
			opt(cfg)
		}
		return m.AddTransition(from, to, event, cfg.guards, cfg.actions)
	}
}

// WithObserver registers fn to run after every completed transition.
func WithObserver(fn Observer) Option {
	return func(m *Machine) error {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
		return nil
	}
}

func WithGuard(guard Guard) TransitionOption {
	return func(cfg *transitionConfig) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

func WithAction(action Action) TransitionOption {
	return func(cfg *transitionConfig) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}
