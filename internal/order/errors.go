package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrValidation marks caller mistakes: missing or malformed input that
	// caused no state change.
	ErrValidation = errors.New("invalid order request")

	// ErrTerminalState is returned for any transition attempted on a
	// delivered or cancelled order.
	ErrTerminalState = errors.New("order is in a terminal state")
)

// InvalidTransitionError reports a status move that skips the chain or
// cancels from a non-cancellable state.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// TransactionError wraps an infrastructure-level commit failure. The operation
// had no durable effect and is safe to retry.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string { return fmt.Sprintf("transaction failed: %v", e.Err) }
func (e *TransactionError) Unwrap() error { return e.Err }
