package actions

import (
	"errors"
	"fmt"
)

// Error is the recognized failure mode of an action: the operation does not
// apply in the current situation (wrong window state, missing parameter).
// Dispatch treats it as expected and logs it without further diagnostics.
type Error struct {
	// Action is the failing action's name.
	Action string

	// Message describes the failure.
	Message string
}

// Errorf creates an action error.
func Errorf(action, format string, args ...any) *Error {
	return &Error{Action: action, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("action %s: %s", e.Action, e.Message)
}

// IsActionError reports whether err is a recognized action error.
func IsActionError(err error) bool {
	var aerr *Error
	return errors.As(err, &aerr)
}
