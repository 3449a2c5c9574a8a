package order

import "fmt"

// Status is the order fulfillment state. Orders move strictly forward through
// the chain below; cancelled is reachable only from the first two states and,
// like delivered, has no outgoing transitions.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPacked     Status = "packed"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// forward is the fulfillment chain in order. Index comparisons against this
// slice implement the "immediate successor only" rule.
var forward = []Status{StatusPending, StatusProcessing, StatusPacked, StatusShipped, StatusDelivered}

// ParseStatus validates client input. "ordered" survives from the storefront's
// older contract as an alias of pending.
func ParseStatus(s string) (Status, error) {
	if s == "ordered" {
		return StatusPending, nil
	}
	for _, known := range forward {
		if Status(s) == known {
			return known, nil
		}
	}
	if Status(s) == StatusCancelled {
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func forwardIndex(s Status) int {
	for i, v := range forward {
		if v == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether an order currently in from may move to to.
func CanTransition(from, to Status) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: order is %s", ErrTerminalState, from)
	}
	if to == StatusCancelled {
		if from == StatusPending || from == StatusProcessing {
			return nil
		}
		return &InvalidTransitionError{From: from, To: to}
	}
	fi, ti := forwardIndex(from), forwardIndex(to)
	if fi < 0 || ti < 0 || ti != fi+1 {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
