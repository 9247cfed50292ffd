// Package statemachine is a small finite state machine with guarded
// transitions and transition actions.
//
// Transitions are declared up front:
//
//	sm := statemachine.MustNew(loading,
//	    statemachine.WithTransition(loading, authenticated, mount,
//	        statemachine.WithGuard(userPresent),
//	    ),
//	    statemachine.WithTransition(loading, unauthenticated, mount),
//	    statemachine.WithTransition(unauthenticated, authenticated, login,
//	        statemachine.WithAction(persistUser),
//	    ),
//	)
//	err := sm.Fire(ctx, login, user)
//
// Several transitions may share a source state and event. Fire takes the
// first one, in declaration order, whose guards all pass, which is how
// data-dependent branching is expressed. Actions run in order before the
// state changes; the first failing action aborts the transition. Observers
// run after the state has changed.
//
// Fire returns *ErrNoTransitionAvailable when nothing is declared for the
// current state and event, and *ErrTransitionRejected when every candidate
// was refused by a guard.
//
// Machine is safe for concurrent use. Guards and actions run while the
// machine lock is held and must not call back into the same machine.
package statemachine
