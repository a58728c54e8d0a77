package queries

import (
	"context"

	"ordering/internal/core/ports"
)

// ListOrdersQueryHandler serves ListOrdersQuery.
type ListOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewListOrdersQueryHandler creates a handler reading from reader.
func NewListOrdersQueryHandler(reader ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

// Handle returns the requested page of orders.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ports.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return ports.OrderPage{}, err
	}

	return h.reader.List(ctx, ports.OrderFilter{Status: query.Status()}, query.Page())
}
