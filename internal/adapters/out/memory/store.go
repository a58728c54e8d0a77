// Package memory provides an in-process implementation of the order persistence ports.
// It keeps the semantics of the postgres adapter (atomic commit, version compare-and-swap,
// stable paging) and serves deployments without a database as well as tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
)

// OrderStore holds committed orders. Every order handed out is a private copy,
// so callers mutate nothing but their own instance.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*order.Order
}

var _ ports.OrderReader = (*OrderStore)(nil)

// NewOrderStore creates an empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[uuid.UUID]*order.Order),
	}
}

// Get returns a copy of the committed order.
func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.orders[id.Bytes()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return cloneOrder(stored)
}

// List filters, sorts and pages the committed orders. Ties on the sort field are
// broken by id so pages never overlap.
func (s *OrderStore) List(_ context.Context, filter ports.OrderFilter, page ports.PageRequest) (ports.OrderPage, error) {
	s.mu.RLock()
	matching := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.CustomerID != nil && o.CustomerID() != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && o.Status() != *filter.Status {
			continue
		}
		matching = append(matching, o)
	}
	s.mu.RUnlock()

	slices.SortFunc(matching, func(a, b *order.Order) int {
		c := compareBy(page.SortBy, a, b)
		if page.Direction == ports.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})

	result := ports.OrderPage{
		Orders:        make([]*order.Order, 0, page.Size),
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: int64(len(matching)),
	}

	start := min(page.Offset(), len(matching))
	end := min(start+page.Size, len(matching))
	for _, o := range matching[start:end] {
		clone, err := cloneOrder(o)
		if err != nil {
			return ports.OrderPage{}, err
		}
		result.Orders = append(result.Orders, clone)
	}

	return result, nil
}

// CountPlacedBefore counts committed orders in one of statuses placed before the given time.
func (s *OrderStore) CountPlacedBefore(_ context.Context, statuses []order.Status, before time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, o := range s.orders {
		if slices.Contains(statuses, o.Status()) && o.OrderDate().Before(before) {
			count++
		}
	}
	return count, nil
}

// compareBy orders like the postgres adapter: statuses by name, amounts numerically.
func compareBy(field ports.SortField, a, b *order.Order) int {
	switch field {
	case ports.SortByTotalAmount:
		return a.TotalAmount().Amount().Cmp(b.TotalAmount().Amount())
	case ports.SortByStatus:
		return cmp.Compare(a.Status().String(), b.Status().String())
	case ports.SortByCreatedAt:
		return a.CreatedAt().Compare(b.CreatedAt())
	case ports.SortByUpdatedAt:
		return a.UpdatedAt().Compare(b.UpdatedAt())
	case ports.SortByCustomerID:
		return cmp.Compare(a.CustomerID(), b.CustomerID())
	case ports.SortByID:
		return cmp.Compare(a.ID().String(), b.ID().String())
	case ports.SortByOrderDate:
		return a.OrderDate().Compare(b.OrderDate())
	default:
		return a.OrderDate().Compare(b.OrderDate())
	}
}

func cloneOrder(o *order.Order) (*order.Order, error) {
	return order.RestoreOrder(order.RestoreParams{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		OrderDate:       o.OrderDate(),
		Items:           o.Items(),
		TotalAmount:     o.TotalAmount(),
		Status:          o.Status(),
		ShippingAddress: o.ShippingAddress(),
		Notes:           o.Notes(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	})
}
