package order

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created through NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a line of an order. It belongs to exactly one Order and is never changed
// after creation: productName and price are snapshots of the catalog taken when
// the order was placed, and subtotal is price multiplied by quantity.
type Item struct { //nolint:recvcheck //using for validation
	id          kernel.UUID
	productID   int64
	productName string
	quantity    int
	price       kernel.Money
	subtotal    kernel.Money
	guard       guard.ConstructorGuard
}

// NewItem snapshots a catalog product into a new line with a generated identifier.
//
// Parameters:
//   - productID: catalog identifier, must be positive
//   - productName: catalog name at the time of ordering, must not be empty
//   - price: catalog unit price at the time of ordering
//   - quantity: number of units, 1..MaxItemQuantity
func NewItem(productID int64, productName string, price kernel.Money, quantity int) (Item, error) {
	item := Item{
		id:    kernel.NewUUID(),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setProductName(productName),
		item.setPrice(price),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}

	item.subtotal = item.price.Multiply(item.quantity)
	return item, nil
}

// RestoreItem rebuilds a persisted line. The stored subtotal must still equal price times quantity.
func RestoreItem(
	id kernel.UUID,
	productID int64,
	productName string,
	price kernel.Money,
	quantity int,
	subtotal kernel.Money,
) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setProductName(productName),
		item.setPrice(price),
		item.setQuantity(quantity),
		subtotal.Validate(),
	); err != nil {
		return Item{}, err
	}

	expected := item.price.Multiply(item.quantity)
	if equal, _ := expected.IsEqual(subtotal); !equal {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("%s is not %s x %d", subtotal, item.price, item.quantity))
	}
	item.subtotal = expected

	return item, nil
}

// Validate reports whether the item was built by a constructor.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID returns the item identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// ProductID returns the catalog product the line refers to.
func (i Item) ProductID() int64 {
	return i.productID
}

// ProductName returns the snapshotted product name.
func (i Item) ProductName() string {
	return i.productName
}

// Quantity returns the number of units ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// Price returns the snapshotted unit price.
func (i Item) Price() kernel.Money {
	return i.price
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() kernel.Money {
	return i.subtotal
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProductID(productID int64) error {
	if productID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("%d is not greater than 0", productID))
	}
	i.productID = productID
	return nil
}

func (i *Item) setProductName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	i.productName = name
	return nil
}

func (i *Item) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	i.price = price
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 1", quantity))
	}
	if quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	i.quantity = quantity
	return nil
}
