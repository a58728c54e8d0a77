package queries

import (
	"context"

	"ordering/internal/core/ports"
)

// ListCustomerOrdersQueryHandler serves ListCustomerOrdersQuery.
type ListCustomerOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewListCustomerOrdersQueryHandler creates a handler reading from reader.
func NewListCustomerOrdersQueryHandler(reader ports.OrderReader) ListCustomerOrdersQueryHandler {
	return ListCustomerOrdersQueryHandler{reader: reader}
}

// Handle returns the requested page of the customer's orders.
func (h ListCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListCustomerOrdersQuery,
) (ports.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return ports.OrderPage{}, err
	}

	customerID := query.CustomerID()
	return h.reader.List(ctx, ports.OrderFilter{CustomerID: &customerID}, query.Page())
}
