package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

// catalogService names the catalog in upstream failures raised by the handler.
const catalogService = "catalog"

// CreateOrderCommandHandler places new orders.
//
// Every line is checked for availability and then fetched from the catalog; the
// name and price of the fetched snapshot are copied into the order. Any failing
// line aborts the whole command before a transaction is opened, so a rejected
// order never leaves a trace in the repository.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalogClient, 1, logger)
//	cmd, _ := NewCreateOrderCommand(42, []OrderLine{{ProductID: 1, Quantity: 2}}, "", "")
//
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectIsUnavailable) {
//	    // inactive product or not enough stock
//	}
type CreateOrderCommandHandler struct {
	uowFactory       OrderUoWFactory
	catalog          ports.CatalogClient
	fetchConcurrency int
	now              func() time.Time
	logger           *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// fetchConcurrency bounds the number of lines resolved against the catalog at the
// same time; 1 or less resolves them strictly one after another in request order.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.CatalogClient,
	fetchConcurrency int,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if fetchConcurrency < 1 {
		fetchConcurrency = 1
	}
	return CreateOrderCommandHandler{
		uowFactory:       uowFactory,
		catalog:          catalog,
		fetchConcurrency: fetchConcurrency,
		now:              time.Now,
		logger:           logger.With("component", "create_order_handler"),
	}
}

// Handle resolves every line against the catalog, assembles the order and persists
// it with all of its items in one unit of work.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := h.resolveItems(ctx, cmd.Lines())
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.CustomerID(), items, cmd.ShippingAddress(), cmd.Notes(), h.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		"order_id", o.ID().String(),
		"customer_id", o.CustomerID(),
		"items", len(items),
		"total_amount", o.TotalAmount().String(),
	)
	return o, nil
}

// resolveItems snapshots every line. Results are stored by index so the items keep
// request order whatever the completion order of the catalog calls.
func (h *CreateOrderCommandHandler) resolveItems(ctx context.Context, lines []OrderLine) ([]order.Item, error) {
	items := make([]order.Item, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.fetchConcurrency)

	for idx, line := range lines {
		g.Go(func() error {
			// a failed line cancels gctx; lines not started yet are skipped
			if err := gctx.Err(); err != nil {
				return err
			}

			item, err := h.resolveItem(gctx, line)
			if err != nil {
				return err
			}
			items[idx] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (h *CreateOrderCommandHandler) resolveItem(ctx context.Context, line OrderLine) (order.Item, error) {
	if err := h.catalog.CheckAvailability(ctx, line.ProductID, line.Quantity); err != nil {
		return order.Item{}, err
	}

	snapshot, err := h.catalog.FetchProduct(ctx, line.ProductID)
	if err != nil {
		return order.Item{}, err
	}

	price, err := kernel.NewMoney(snapshot.Price)
	if err != nil {
		return order.Item{}, errs.NewUpstreamFailureError(catalogService,
			fmt.Errorf("product %d has an invalid price: %w", line.ProductID, err))
	}

	item, err := order.NewItem(line.ProductID, snapshot.Name, price, line.Quantity)
	if err != nil {
		return order.Item{}, errs.NewUpstreamFailureError(catalogService,
			fmt.Errorf("product %d cannot be snapshotted: %w", line.ProductID, err))
	}
	return item, nil
}
