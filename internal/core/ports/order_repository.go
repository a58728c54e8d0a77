// Package ports defines the contracts between the order core and its adapters:
// persistence of the Order aggregate and access to the external product catalog.
package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository defines the transactional persistence contract for order aggregates.
// An order and its items are always written and read as one unit.
type OrderRepository interface {
	// Add persists a new order together with all of its items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable part of an existing order (status, version, updatedAt)
	// only if the stored version still equals expectedVersion.
	//
	// Returns:
	//   - *errs.ConcurrencyConflictError if another writer changed the order first
	//   - *errs.ObjectNotFoundError if the order does not exist
	Update(ctx context.Context, aggregate *order.Order, expectedVersion int64) error

	// Get retrieves an order with its items in their original order.
	// Returns *errs.ObjectNotFoundError when no order has the given id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderReader serves the read side: single lookups, paged listings and monitoring counts.
// Implementations read committed state outside of any unit of work.
type OrderReader interface {
	// Get retrieves an order with its items, see OrderRepository.Get.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns one page of orders matching filter, sorted as page requests.
	List(ctx context.Context, filter OrderFilter, page PageRequest) (OrderPage, error)

	// CountPlacedBefore counts orders in any of statuses whose orderDate is before the given time.
	CountPlacedBefore(ctx context.Context, statuses []order.Status, before time.Time) (int64, error)
}

// OrderFilter narrows a listing. Zero values mean "no restriction".
type OrderFilter struct {
	CustomerID *int64
	Status     *order.Status
}

// SortField names an order attribute a listing can be sorted by.
type SortField string

const (
	SortByOrderDate   SortField = "orderDate"
	SortByTotalAmount SortField = "totalAmount"
	SortByStatus      SortField = "status"
	SortByCreatedAt   SortField = "createdAt"
	SortByUpdatedAt   SortField = "updatedAt"
	SortByCustomerID  SortField = "customerId"
	SortByID          SortField = "id"
)

// SortFields lists every supported sort field.
func SortFields() []SortField {
	return []SortField{
		SortByOrderDate,
		SortByTotalAmount,
		SortByStatus,
		SortByCreatedAt,
		SortByUpdatedAt,
		SortByCustomerID,
		SortByID,
	}
}

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a zero-based page of a sorted listing.
// Build it with NewPageRequest so the bounds are checked.
type PageRequest struct {
	Number    int
	Size      int
	SortBy    SortField
	Direction SortDirection
}

// Offset returns the number of rows preceding the page.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// OrderPage is one page of a listing plus the totals needed to navigate it.
type OrderPage struct {
	Orders        []*order.Order
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages returns the number of pages of the current size needed for all matching orders.
func (p OrderPage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

// IsFirst reports whether this is the first page.
func (p OrderPage) IsFirst() bool {
	return p.Number == 0
}

// IsLast reports whether no page follows this one.
func (p OrderPage) IsLast() bool {
	return p.Number+1 >= p.TotalPages()
}
