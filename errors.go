package alsasync

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches one of them with errors.Is.
var (
	// ErrUnsupportedType means the node shape cannot be bound to the requested object kind.
	ErrUnsupportedType = errors.New("parameter type not supported")
	// ErrSizeMismatch means element count times scalar width differs from the node footprint.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrDriver wraps a failure of the underlying driver call.
	ErrDriver = errors.New("driver error")
	// ErrNotFound means the card, device or control does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedFormat means the sample format has no valid native translation.
	ErrUnsupportedFormat = errors.New("format not supported")
	// ErrBackendUnavailable means the backend was not compiled into this binary.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// StreamError reports a failed stream transition.
type StreamError struct {
	Direction Direction
	Op        string
	Err       error
}

// Error returns e.g. "Capture open error: device busy".
func (e *StreamError) Error() string {
	return fmt.Sprintf("%s %s error: %v", e.Direction, e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

var errorKinds = []error{ErrUnsupportedType, ErrSizeMismatch, ErrDriver, ErrNotFound, ErrUnsupportedFormat, ErrBackendUnavailable}

// driverError marks a native failure as ErrDriver while keeping its message.
type driverError struct {
	err error
}

func (e *driverError) Error() string {
	return e.err.Error()
}

func (e *driverError) Unwrap() []error {
	return []error{ErrDriver, e.err}
}

// classify returns err unchanged when it already matches an error kind and marks it as a
// driver error otherwise.
func classify(err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	return &driverError{err: err}
}
