package controller

import (
	"github.com/go-watchlist/watchlist/session"
)

// GuardResult is the decision of Guard
type GuardResult int

// Possible GuardResult values
const (
	Allowed GuardResult = iota
	DenyRedirect
	DenySilent
)

// Guard decides whether an operation may run for id. onAnonymous is the
// decision for callers without a session and must be DenyRedirect or
// DenySilent.
func Guard(id session.Identity, onAnonymous GuardResult) GuardResult {
	if id.Authenticated() {
		return Allowed
	}
	if onAnonymous == Allowed {
		return DenyRedirect
	}
	return onAnonymous
}

// UnauthenticatedError is returned when a gated operation is called without a
// valid session
type UnauthenticatedError struct {
	// Silent is set if the caller is not told why nothing happened
	Silent bool
}

// Error implements the error interface
func (UnauthenticatedError) Error() string {
	return "authentication required"
}

func denied(g GuardResult) Result {
	if g == DenySilent {
		return Result{
			Redirect: PathIndex,
			Err:      UnauthenticatedError{Silent: true},
		}
	}
	return Result{
		Redirect: PathLogin,
		Notices:  []string{NoticeLoginRequired},
		Err:      UnauthenticatedError{},
	}
}
