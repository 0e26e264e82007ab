package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData reports a booking listing response without the expected "data"
// container. It is fatal for the whole run: nothing gets dispatched.
var ErrNoData = errors.New("no bookings data found to sync")

// ThrottledError is the only retryable failure. The retry executor sleeps
// Wait and re-invokes the call; every other error classification propagates.
type ThrottledError struct {
	Endpoint string
	Wait     time.Duration
	Attempt  int // reactive retries burned so far, drives backoff growth
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("rate limit exceeded on %s: retry after %s", e.Endpoint, e.Wait)
}

// InvalidDataError reports a fetched payload that is missing or mangles a
// required field. Fatal for its booking only.
type InvalidDataError struct {
	Endpoint string
	Field    string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid data from %s: missing required field %q", e.Endpoint, e.Field)
}

// FatalError is a non-retryable upstream failure: a non-2xx non-429 response,
// or an exhausted retry budget.
type FatalError struct {
	Endpoint string
	Status   int
	Reason   string
}

func (e *FatalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("pms request failed for %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("pms request failed for %s: %s", e.Endpoint, e.Reason)
}

// TransientError wraps a network-level failure (timeout, refused connection).
// It aborts the enclosing task or run; this layer never retries it.
type TransientError struct {
	Endpoint string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("connection error on %s: %v", e.Endpoint, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }
