package app

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Run on a running App.
var ErrAlreadyRunning = errors.New("app: already running")

// InitError marks a bootstrap failure with the component that failed.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
