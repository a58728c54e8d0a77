package queries

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// CountStaleOrdersQueryHandler serves CountStaleOrdersQuery.
// PENDING and CONFIRMED orders count as stale; shipped orders are with the carrier.
type CountStaleOrdersQueryHandler struct {
	reader ports.OrderReader
	now    func() time.Time
}

func NewCountStaleOrdersQueryHandler(reader ports.OrderReader) CountStaleOrdersQueryHandler {
	return CountStaleOrdersQueryHandler{reader: reader, now: time.Now}
}

func (h CountStaleOrdersQueryHandler) Handle(ctx context.Context, query CountStaleOrdersQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}
	cutoff := h.now().Add(-query.MaxAge())
	return h.reader.CountPlacedBefore(ctx, []order.Status{order.Pending, order.Confirmed}, cutoff)
}
