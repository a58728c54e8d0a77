package order

import (
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──┬──> Confirmed ──┬──> Shipped ──> Delivered
//	          │                │
//	          └────────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the status of every newly created order.
	Pending

	// Confirmed orders have been accepted and can still be cancelled.
	Confirmed

	// Shipped orders have left the warehouse and can no longer be cancelled.
	Shipped

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

// getStatusStrings returns the wire and storage name of each status.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Shipped:   "SHIPPED",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// getAllowedTransitions returns the allowed next statuses for each non-terminal status.
func getAllowedTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing transitions
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Shipped, Cancelled},
		Shipped:   {Delivered},
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Confirmed, Shipped, Delivered, Cancelled}
}

// ParseStatus resolves a status name case-insensitively, so "shipped" and "SHIPPED"
// are the same status. Unknown names are a validation error.
func ParseStatus(name string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for _, s := range Statuses() {
		if getStatusStrings()[s] == normalized {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not one of PENDING, CONFIRMED, SHIPPED, DELIVERED, CANCELLED", name))
}

// Validate rejects Unknown and values outside of the enumeration.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper case name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateTransitionTo checks whether the order may move from s to next.
//
// Terminal statuses reject every request, including a request for themselves,
// before the transition table is consulted. Any pair missing from the table,
// same-status requests among them, is rejected as well.
//
// Returns:
//   - nil if the transition is allowed
//   - *errs.OperationIsInvalidError naming both statuses otherwise
//   - a validation error when next is not a valid status
//
// Example:
//
//	if err := order.Shipped.ValidateTransitionTo(order.Cancelled); err != nil {
//	    // cannot change status from SHIPPED to CANCELLED
//	}
func (s Status) ValidateTransitionTo(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return errs.NewOperationIsInvalidError("change status",
			fmt.Sprintf("cannot change status of a %s order to %s", strings.ToLower(s.String()), next))
	}

	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == next {
			return nil
		}
	}

	return errs.NewOperationIsInvalidError("change status",
		fmt.Sprintf("cannot change status from %s to %s", s, next))
}
