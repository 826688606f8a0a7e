// Package authgate guards sensitive client actions behind re-authentication.
//
// A Gate is created per action instance (for example one transfer submit).
// It decides between the biometric and password prompt, and once authorized
// it fires the guarded action exactly once, no matter how often the caller
// retries the authorization flow.
package authgate

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrInvalidTransition indicates a call that is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid authentication gate transition")
	// ErrNotAuthorized indicates that the gate has not reached the Authorized state.
	ErrNotAuthorized = errors.New("action is not authorized")
	// ErrAlreadyFired indicates that the guarded action has already run.
	ErrAlreadyFired = errors.New("action has already fired")
	// ErrBiometricUnavailable indicates that no biometric prompt can be shown.
	ErrBiometricUnavailable = errors.New("biometric authentication is unavailable")
)

// State of the authentication gate.
type State string

// Gate states.
const (
	StateIdle            State = "idle"
	StateAwaitingAuth    State = "awaiting_auth"
	StateBiometricPrompt State = "biometric_prompt"
	StatePasswordPrompt  State = "password_prompt"
	StateAuthorized      State = "authorized"
	StateDenied          State = "denied"
)

// Biometrics is the device biometric capability.
type Biometrics interface {
	// Available reports whether biometric hardware is present and enrolled.
	Available(ctx context.Context) bool
	// Prompt shows the biometric prompt and returns nil on a successful match.
	Prompt(ctx context.Context, reason string) error
}

// PasswordVerifier verifies the fallback secret against the backend.
type PasswordVerifier interface {
	Verify(ctx context.Context, password string) error
}

// Gate is a single-shot authentication gate for one sensitive action.
type Gate struct {
	bio      Biometrics
	verifier PasswordVerifier
	optedIn  bool

	mu    sync.Mutex
	state State
	fired bool
}

// New returns an idle gate. optedIn reflects the user's biometric login
// preference; without it the gate goes straight to the password prompt.
func New(bio Biometrics, verifier PasswordVerifier, optedIn bool) *Gate {
	return &Gate{
		bio:      bio,
		verifier: verifier,
		optedIn:  optedIn,
		state:    StateIdle,
	}
}

// State returns the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Begin starts the authentication flow and returns the prompt to show:
// the biometric prompt when the capability is available and the user opted
// in, the password prompt otherwise.
func (g *Gate) Begin(ctx context.Context) (State, error) {
	g.mu.Lock()
	if g.state != StateIdle {
		g.mu.Unlock()
		return g.state, ErrInvalidTransition
	}

	g.state = StateAwaitingAuth
	g.mu.Unlock()

	next := StatePasswordPrompt
	if g.optedIn && g.bio.Available(ctx) {
		next = StateBiometricPrompt
	}

	g.mu.Lock()
	g.state = next
	g.mu.Unlock()

	return next, nil
}

// ConfirmBiometric runs the biometric prompt.
//
// On success the gate becomes Authorized. On failure, or when the capability
// disappeared between Begin and the prompt, the gate returns to Idle and the
// error is surfaced; switching to the password prompt requires an explicit
// UsePassword call so the fallback is never silent.
func (g *Gate) ConfirmBiometric(ctx context.Context, reason string) error {
	g.mu.Lock()
	if g.state != StateBiometricPrompt {
		g.mu.Unlock()
		return ErrInvalidTransition
	}
	g.mu.Unlock()

	if !g.bio.Available(ctx) {
		g.toState(StateIdle)
		return ErrBiometricUnavailable
	}

	if err := g.bio.Prompt(ctx, reason); err != nil {
		g.toState(StateIdle)
		return err
	}

	g.toState(StateAuthorized)

	return nil
}

// UsePassword switches to the password prompt on explicit user action.
func (g *Gate) UsePassword() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case StateIdle, StateAwaitingAuth, StateBiometricPrompt:
		g.state = StatePasswordPrompt
		return nil
	}

	return ErrInvalidTransition
}

// SubmitPassword verifies the password against the backend. Success moves
// the gate to Authorized, failure to Denied.
func (g *Gate) SubmitPassword(ctx context.Context, password string) error {
	g.mu.Lock()
	if g.state != StatePasswordPrompt {
		g.mu.Unlock()
		return ErrInvalidTransition
	}
	g.mu.Unlock()

	if err := g.verifier.Verify(ctx, password); err != nil {
		g.toState(StateDenied)
		return err
	}

	g.toState(StateAuthorized)

	return nil
}

// Fire runs the guarded action.
//
// It requires the Authorized state and runs the action at most once per gate
// instance: re-entering Authorized after a first fire does not re-arm it.
func (g *Gate) Fire(ctx context.Context, action func(context.Context) error) error {
	g.mu.Lock()
	if g.state != StateAuthorized {
		g.mu.Unlock()
		return ErrNotAuthorized
	}

	if g.fired {
		g.mu.Unlock()
		return ErrAlreadyFired
	}

	g.fired = true
	g.mu.Unlock()

	return action(ctx)
}

func (g *Gate) toState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}
