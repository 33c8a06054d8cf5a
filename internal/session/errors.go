package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential means there is no access token to act with.
	ErrNoCredential = errors.New("session: no credential")

	// ErrNoRefreshToken means a refresh was needed but none is held.
	ErrNoRefreshToken = errors.New("session: no refresh token")

	// ErrRefreshRejected means the backend refused the refresh token. It is
	// terminal: the session must be torn down.
	ErrRefreshRejected = errors.New("session: refresh token rejected")

	// ErrAuthorizationDenied means a single request's access token was
	// rejected. Recoverable through a refresh.
	ErrAuthorizationDenied = errors.New("session: authorization denied")

	// ErrRemoteCheckFailed means a verification-chain call failed. Callers
	// absorb it into a conservative destination.
	ErrRemoteCheckFailed = errors.New("session: remote check failed")
)

// ValidationError is a caller-facing failure, e.g. bad credentials. Message
// is safe to display verbatim.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsTerminal reports whether err means the credential pair is unusable and
// the session must be cleared.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrRefreshRejected) || errors.Is(err, ErrNoRefreshToken)
}
