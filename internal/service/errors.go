package service

import "errors"

// ErrItemNotFound maps to 404 in handlers.
var ErrItemNotFound = errors.New("inventory item not found")

// RetryableError marks a failure the extraction loop is allowed to retry:
// model transport errors, unparsable output, structurally invalid payloads.
// Anything not wrapped in it (context cancellation, client errors) aborts the
// loop immediately. The retry decision is made on this type, never by
// inspecting error text.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

func retryable(err error) error { return &RetryableError{Err: err} }
