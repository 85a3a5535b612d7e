package scout

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors for the collaborator failure taxonomy. Callers classify with
// errors.Is; wrapping preserves the underlying cause for logs.
var (
	// ErrQuotaExceeded means the search provider refused the call because the
	// run's usage allowance is spent. Fatal at the run level: in-flight rows
	// drain, no new rows start.
	ErrQuotaExceeded = errors.New("search quota exceeded")

	// ErrAuth means the provider rejected our credentials. Fatal immediately.
	ErrAuth = errors.New("authentication failed")

	// ErrTransient marks failures worth retrying (timeouts, resets, 5xx).
	ErrTransient = errors.New("transient failure")

	// ErrNotFound is returned by lookups with no match. Not retryable.
	ErrNotFound = errors.New("not found")
)

// IsFatal reports whether the error must halt intake of new rows.
func IsFatal(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrAuth)
}

// IsRetryable reports whether a fetch or search failure is worth another
// attempt. Context cancellation and permanent failures are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsFatal(err) || errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
