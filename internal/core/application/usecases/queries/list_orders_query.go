package queries

import (
	"errors"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersQuery pages through all orders, optionally restricted to one status.
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	status *order.Status
	page   ports.PageRequest
	guard  guard.ConstructorGuard
}

// NewListOrdersQuery creates an administrative listing. A nil status lists every order.
func NewListOrdersQuery(status *order.Status, page ports.PageRequest) (ListOrdersQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
		s := *status
		status = &s
	}
	if err := validatePage(page); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		status: status,
		page:   page,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the status filter, nil when absent.
func (q ListOrdersQuery) Status() *order.Status {
	return q.status
}

// Page returns the requested page.
func (q ListOrdersQuery) Page() ports.PageRequest {
	return q.page
}
