package order

import (
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

const (
	// MaxShippingAddressLength is the longest accepted shipping address, in characters.
	MaxShippingAddressLength = 500
	// MaxNotesLength is the longest accepted order note, in characters.
	MaxNotesLength = 1000
	// MaxItemQuantity bounds a single line so subtotals fit the numeric(12,2) columns.
	MaxItemQuantity = 10000
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the ordering domain. It owns a fixed sequence of
// items created together with it and afterwards changes only through ChangeStatus.
//
// Order follows these invariants:
//   - totalAmount always equals the sum of the item subtotals
//   - items keep the order in which they were requested and are never added or removed
//   - status moves only along the transitions allowed by Status.ValidateTransitionTo
//   - version grows by one on every mutation and guards persistence against lost updates
//   - orderDate and createdAt never change, updatedAt follows every mutation
type Order struct {
	id              kernel.UUID
	customerID      int64
	orderDate       time.Time
	items           []Item
	totalAmount     kernel.Money
	status          Status
	shippingAddress string
	notes           string
	version         int64
	createdAt       time.Time
	updatedAt       time.Time

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// RestoreParams carries the persisted state of an order for RestoreOrder.
type RestoreParams struct {
	ID              kernel.UUID
	CustomerID      int64
	OrderDate       time.Time
	Items           []Item
	TotalAmount     kernel.Money
	Status          Status
	ShippingAddress string
	Notes           string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder assembles a Pending order at version 0 from already snapshotted items.
//
// Parameters:
//   - customerID: external customer reference, must be positive
//   - items: at least one item, kept in the given order
//   - shippingAddress, notes: optional free text, bounded by MaxShippingAddressLength and MaxNotesLength
//   - now: creation time used for orderDate, createdAt and updatedAt
//
// Example:
//
//	price, _ := kernel.MoneyFromString("10.00")
//	item, _ := order.NewItem(1, "Keyboard", price, 2)
//	o, err := order.NewOrder(42, []order.Item{item}, "1 Main St", "", time.Now())
func NewOrder(
	customerID int64,
	items []Item,
	shippingAddress string,
	notes string,
	now time.Time,
) (*Order, error) {
	now = normalizeTime(now)
	o := &Order{
		id:            kernel.NewUUID(),
		orderDate:     now,
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setShippingAddress(shippingAddress),
		o.setNotes(notes),
	); err != nil {
		return nil, err
	}

	o.totalAmount = sumSubtotals(o.items)
	return o, nil
}

// RestoreOrder rebuilds an order from persistence, re-checking every invariant so a
// corrupted row never turns into a live aggregate.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		orderDate:     normalizeTime(p.OrderDate),
		version:       p.Version,
		createdAt:     normalizeTime(p.CreatedAt),
		updatedAt:     normalizeTime(p.UpdatedAt),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setCustomerID(p.CustomerID),
		o.setItems(p.Items),
		o.setStatus(p.Status),
		o.setShippingAddress(p.ShippingAddress),
		o.setNotes(p.Notes),
		p.TotalAmount.Validate(),
	); err != nil {
		return nil, err
	}

	if p.Version < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is negative", p.Version))
	}

	o.totalAmount = sumSubtotals(o.items)
	if equal, _ := o.totalAmount.IsEqual(p.TotalAmount); !equal {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%s does not match the item subtotals %s", p.TotalAmount, o.totalAmount))
	}

	return o, nil
}

// Validate ensures the Order instance was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the external customer reference.
func (o *Order) CustomerID() int64 {
	return o.customerID
}

// OrderDate returns the moment the order was placed.
func (o *Order) OrderDate() time.Time {
	return o.orderDate
}

// Items returns a copy of the order lines in request order.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// TotalAmount returns the sum of all item subtotals.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// ShippingAddress returns the optional shipping address.
func (o *Order) ShippingAddress() string {
	return o.shippingAddress
}

// Notes returns the optional customer notes.
func (o *Order) Notes() string {
	return o.notes
}

// Version returns the optimistic concurrency token.
func (o *Order) Version() int64 {
	return o.version
}

// CreatedAt returns the creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the latest mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangeStatus moves the order to next when the state machine allows it,
// incrementing the version and refreshing updatedAt.
// On rejection the order is left untouched.
//
// Example:
//
//	if err := o.ChangeStatus(order.Confirmed, time.Now()); err != nil {
//	    // errors.Is(err, errs.ErrOperationIsInvalid)
//	}
func (o *Order) ChangeStatus(next Status, now time.Time) error {
	if err := o.status.ValidateTransitionTo(next); err != nil {
		return err
	}

	o.status = next
	o.version++
	o.updatedAt = normalizeTime(now)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID int64) error {
	if customerID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("customerId", fmt.Errorf("%d is not greater than 0", customerID))
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("an order needs at least one item"))
	}
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", idx), err)
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setShippingAddress(address string) error {
	if n := utf8.RuneCountInString(address); n > MaxShippingAddressLength {
		return errs.NewValueIsOutOfRangeError("shippingAddress length", n, 0, MaxShippingAddressLength)
	}
	o.shippingAddress = address
	return nil
}

func (o *Order) setNotes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", n, 0, MaxNotesLength)
	}
	o.notes = notes
	return nil
}

func sumSubtotals(items []Item) kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// normalizeTime keeps timestamps in UTC at the precision postgres stores.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
