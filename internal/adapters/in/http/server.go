// Package http is the REST boundary of the ordering service. It binds requests to
// commands and queries and translates every failure through a single error table.
package http

import (
	"net/http"
	"strings"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	listCustomerOrdersHandler queries.ListCustomerOrdersQueryHandler
	listOrdersHandler         queries.ListOrdersQueryHandler

	metrics *metrics.Metrics
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listCustomerOrdersHandler queries.ListCustomerOrdersQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	m *metrics.Metrics,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		updateOrderStatusHandler:  updateOrderStatusHandler,
		getOrderHandler:           getOrderHandler,
		listCustomerOrdersHandler: listCustomerOrdersHandler,
		listOrdersHandler:         listOrdersHandler,
		metrics:                   m,
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	lines := make([]commands.OrderLine, len(body.Items))
	for i, item := range body.Items {
		lines[i] = commands.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	cmd, err := commands.NewCreateOrderCommand(body.CustomerID, lines, valueOf(body.ShippingAddress), valueOf(body.Notes))
	if err != nil {
		return err
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	s.metrics.OrderCreated()

	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id string) error {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	found, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrder(found))
}

// ListCustomerOrders handles GET /api/v1/orders/customer/{customerId}.
func (s *Server) ListCustomerOrders(ctx echo.Context, customerID int64, params PageParams) error {
	page, err := params.toPageRequest()
	if err != nil {
		return err
	}

	query, err := queries.NewListCustomerOrdersQuery(customerID, page)
	if err != nil {
		return err
	}

	result, err := s.listCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrderPage(result))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	page, err := params.toPageRequest()
	if err != nil {
		return err
	}

	var status *order.Status
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		parsed, parseErr := order.ParseStatus(*params.Status)
		if parseErr != nil {
			return parseErr
		}
		status = &parsed
	}

	query, err := queries.NewListOrdersQuery(status, page)
	if err != nil {
		return err
	}

	result, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrderPage(result))
}

// UpdateOrderStatus handles PUT /api/v1/orders/{id}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id string) error {
	orderID, err := kernel.UUIDFromString(id)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	if strings.TrimSpace(body.Status) == "" {
		return errs.NewValueIsRequiredError("status")
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return err
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	s.metrics.StatusChanged(updated.Status().String())

	return ctx.JSON(http.StatusOK, toOrder(updated))
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
