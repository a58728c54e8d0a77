package commands

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// OrderLine is one requested product and quantity of a new order.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// CreateOrderCommand represents a customer's request to place an order.
// Only the shape of the request is checked here; products are resolved against the
// catalog by the handler.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(42, []OrderLine{{ProductID: 1, Quantity: 2}}, "1 Main St", "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID      int64
	lines           []OrderLine
	shippingAddress string
	notes           string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every field and reports all problems at once.
// Field names in the returned errors follow the request body, e.g. "items[1].quantity".
func NewCreateOrderCommand(
	customerID int64,
	lines []OrderLine,
	shippingAddress string,
	notes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setLines(lines),
		cmd.setShippingAddress(shippingAddress),
		cmd.setNotes(notes),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the external customer reference.
func (c CreateOrderCommand) CustomerID() int64 {
	return c.customerID
}

// Lines returns the requested lines in request order.
func (c CreateOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

// ShippingAddress returns the optional shipping address.
func (c CreateOrderCommand) ShippingAddress() string {
	return c.shippingAddress
}

// Notes returns the optional notes.
func (c CreateOrderCommand) Notes() string {
	return c.notes
}

func (c *CreateOrderCommand) setCustomerID(customerID int64) error {
	if customerID == 0 {
		return errs.NewValueIsRequiredError("customerId")
	}
	if customerID < 0 {
		return errs.NewValueIsInvalidErrorWithCause("customerId", fmt.Errorf("%d is not greater than 0", customerID))
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("order must contain at least one item"))
	}

	var lineErrs []error
	for idx, line := range lines {
		if line.ProductID <= 0 {
			lineErrs = append(lineErrs, errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productId", idx)))
		}
		if line.Quantity < 1 {
			lineErrs = append(lineErrs, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", idx),
				fmt.Errorf("quantity must be at least 1, got %d", line.Quantity),
			))
		}
		if line.Quantity > order.MaxItemQuantity {
			lineErrs = append(lineErrs, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("items[%d].quantity", idx), line.Quantity, 1, order.MaxItemQuantity))
		}
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(address string) error {
	if n := utf8.RuneCountInString(address); n > order.MaxShippingAddressLength {
		return errs.NewValueIsOutOfRangeError("shippingAddress", n, 0, order.MaxShippingAddressLength)
	}

	c.shippingAddress = address
	return nil
}

func (c *CreateOrderCommand) setNotes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > order.MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes", n, 0, order.MaxNotesLength)
	}

	c.notes = notes
	return nil
}
