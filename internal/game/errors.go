// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification of a failed transition.
// Kinds surface in the synchronous reply of the originating request; a failed
// transition never mutates lobby state and never becomes a broadcast event.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"      // unknown lobby or player id
	KindInvalidState ErrorKind = "invalid_state"  // transition attempted outside its valid state
	KindNotHost      ErrorKind = "not_host"       // host-only action by a non-host
	KindNotAllReady  ErrorKind = "not_all_ready"  // start attempted while someone unready
	KindLobbyFull    ErrorKind = "lobby_full"     // player cap reached
	KindValidation   ErrorKind = "validation"     // malformed input
)

// Error is a classified transition failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf extracts the ErrorKind from err, or "" if err is not a game error.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func errNotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errInvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func errNotHost(format string, args ...interface{}) error {
	return &Error{Kind: KindNotHost, Message: fmt.Sprintf(format, args...)}
}

func errNotAllReady(format string, args ...interface{}) error {
	return &Error{Kind: KindNotAllReady, Message: fmt.Sprintf(format, args...)}
}

func errLobbyFull(format string, args ...interface{}) error {
	return &Error{Kind: KindLobbyFull, Message: fmt.Sprintf(format, args...)}
}

func errValidation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
