package commands

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler moves orders through their lifecycle.
//
// The order is read, the transition is validated by the aggregate and the result is
// written back only if the stored version is still the one that was read. A writer
// that loses the race gets *errs.ConcurrencyConflictError and may retry.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
	logger     *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
		logger:     logger.With("component", "update_order_status_handler"),
	}
}

// Handle applies the requested transition and returns the updated order.
// A rejected transition returns *errs.OperationIsInvalidError and changes nothing.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	previous := o.Status()
	expectedVersion := o.Version()
	if err = o.ChangeStatus(cmd.Status(), h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", o.ID().String(),
		"from", previous.String(),
		"to", o.Status().String(),
		"version", o.Version(),
	)
	return o, nil
}
