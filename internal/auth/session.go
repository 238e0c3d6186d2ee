// Package auth gates access to the notebook behind a credential check.
//
// Session is a small state machine:
//
//	Locked -> Authenticating -> Unlocked
//	                         -> Failed(reason) -> Authenticating (retry)
//
// Unlocked is terminal for the run. The credential check itself is run by
// the caller, usually asynchronously, and its single result is fed back
// through Resolve on the caller's thread of control.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// NoBiometricsMessage is the failure reason when no credential method is
// available on this machine.
const NoBiometricsMessage = "no biometrics available"

var (
	// ErrUnavailable means no credential method exists; the app stays locked.
	ErrUnavailable = errors.New(NoBiometricsMessage)
	// ErrDenied means the check ran and failed; a retry is allowed.
	ErrDenied = errors.New("authentication denied")
)

// Authenticator is the credential-check collaborator.
type Authenticator interface {
	// CanAuthenticate reports whether a credential method is available.
	CanAuthenticate() bool
	// Authenticate asks the user to prove their identity. reason is shown
	// to the user. A nil return means success.
	Authenticate(ctx context.Context, reason string) error
}

// Phase is the coarse auth state.
type Phase int

const (
	Locked Phase = iota
	Authenticating
	Unlocked
	Failed
)

func (p Phase) String() string {
	switch p {
	case Locked:
		return "locked"
	case Authenticating:
		return "authenticating"
	case Unlocked:
		return "unlocked"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the current auth state. Reason is set only when Phase is Failed.
type State struct {
	Phase  Phase
	Reason string
}

func (s State) String() string {
	if s.Phase == Failed {
		return fmt.Sprintf("failed(%s)", s.Reason)
	}
	return s.Phase.String()
}

// Check is a pending credential check handed out by RequestUnlock. Run it
// once and pass its result to Session.Resolve.
type Check func(ctx context.Context) error

// Session is the single auth gate of a run. It is not safe for concurrent
// use; only the Check it hands out may run on another goroutine.
type Session struct {
	authenticator Authenticator
	reason        string

	state State
	err   error
}

// NewSession returns a Locked session around authenticator. reason is the
// text shown by the credential prompt.
func NewSession(authenticator Authenticator, reason string) *Session {
	return &Session{
		authenticator: authenticator,
		reason:        reason,
		state:         State{Phase: Locked},
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Unlocked reports whether the session has been unlocked.
func (s *Session) Unlocked() bool {
	return s.state.Phase == Unlocked
}

// Err returns the failure of the last attempt: ErrUnavailable or an error
// wrapping ErrDenied. It is nil unless the state is Failed.
func (s *Session) Err() error {
	if s.state.Phase != Failed {
		return nil
	}
	return s.err
}

// RequestUnlock starts an unlock attempt and returns the check to run.
//
// It returns nil when there is nothing to run: the session is already
// Unlocked or Authenticating, or no credential method is available, in
// which case the session moves straight to Failed(NoBiometricsMessage).
func (s *Session) RequestUnlock() Check {
	switch s.state.Phase {
	case Unlocked, Authenticating:
		return nil
	}

	if s.authenticator == nil || !s.authenticator.CanAuthenticate() {
		s.fail(ErrUnavailable)
		return nil
	}

	s.state = State{Phase: Authenticating}
	authenticator, reason := s.authenticator, s.reason
	return func(ctx context.Context) error {
		return authenticator.Authenticate(ctx, reason)
	}
}

// Resolve records the result of the check returned by RequestUnlock. Calls
// outside the Authenticating phase are ignored, so a check resolves at
// most once.
func (s *Session) Resolve(err error) {
	if s.state.Phase != Authenticating {
		return
	}
	if err == nil {
		s.state = State{Phase: Unlocked}
		s.err = nil
		return
	}
	if errors.Is(err, ErrUnavailable) {
		s.fail(ErrUnavailable)
		return
	}
	if !errors.Is(err, ErrDenied) {
		err = fmt.Errorf("%w: %w", ErrDenied, err)
	}
	s.fail(err)
}

// Unlock runs a whole attempt synchronously: RequestUnlock, the check, and
// Resolve. It returns nil once the session is unlocked.
func (s *Session) Unlock(ctx context.Context) error {
	if check := s.RequestUnlock(); check != nil {
		s.Resolve(check(ctx))
	}
	if s.Unlocked() {
		return nil
	}
	if err := s.Err(); err != nil {
		return err
	}
	return fmt.Errorf("unlock: session is %s", s.state)
}

func (s *Session) fail(err error) {
	reason := describe(err)
	if errors.Is(err, ErrUnavailable) {
		reason = NoBiometricsMessage
	}
	s.state = State{Phase: Failed, Reason: reason}
	s.err = err
}

// describe strips the "authentication denied: " prefix so the reason reads
// as the underlying error's own description.
func describe(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, ErrDenied.Error()+": "); ok && rest != "" {
		return rest
	}
	return msg
}
