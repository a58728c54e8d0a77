package http

import (
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// PageParams are the paging and sorting query parameters shared by the listings.
type PageParams struct {
	Page    *int    `form:"page,omitempty" json:"page,omitempty"`
	Size    *int    `form:"size,omitempty" json:"size,omitempty"`
	SortBy  *string `form:"sortBy,omitempty" json:"sortBy,omitempty"`
	SortDir *string `form:"sortDir,omitempty" json:"sortDir,omitempty"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	PageParams
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Create an order
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// List all orders, optionally by status
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// List the orders of a customer
	// (GET /api/v1/orders/customer/{customerId})
	ListCustomerOrders(ctx echo.Context, customerID int64, params PageParams) error
	// Get an order by id
	// (GET /api/v1/orders/{id})
	GetOrder(ctx echo.Context, id string) error
	// Change the status of an order
	// (PUT /api/v1/orders/{id}/status)
	UpdateOrderStatus(ctx echo.Context, id string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// ListOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("status", err)
	}

	if params.PageParams, err = bindPageParams(ctx); err != nil {
		return err
	}

	return w.Handler.ListOrders(ctx, params)
}

// ListCustomerOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListCustomerOrders(ctx echo.Context) error {
	var customerID int64

	err := runtime.BindStyledParameterWithOptions("simple", "customerId", ctx.Param("customerId"), &customerID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerId", err)
	}

	params, err := bindPageParams(ctx)
	if err != nil {
		return err
	}

	return w.Handler.ListCustomerOrders(ctx, customerID, params)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	return w.Handler.GetOrder(ctx, id)
}

// UpdateOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}

	return w.Handler.UpdateOrderStatus(ctx, id)
}

func bindOrderID(ctx echo.Context) (string, error) {
	var id string

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}

func bindPageParams(ctx echo.Context) (PageParams, error) {
	var params PageParams
	query := ctx.QueryParams()

	if err := runtime.BindQueryParameter("form", true, false, "page", query, &params.Page); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("page", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &params.Size); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("size", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "sortBy", query, &params.SortBy); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("sortBy", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "sortDir", query, &params.SortDir); err != nil {
		return params, errs.NewValueIsInvalidErrorWithCause("sortDir", err)
	}
	return params, nil
}

// EchoRouter is the subset of echo routing used to register the handlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST("/api/v1/orders", wrapper.CreateOrder, m...)
	router.GET("/api/v1/orders", wrapper.ListOrders, m...)
	router.GET("/api/v1/orders/customer/:customerId", wrapper.ListCustomerOrders, m...)
	router.GET("/api/v1/orders/:id", wrapper.GetOrder, m...)
	router.PUT("/api/v1/orders/:id/status", wrapper.UpdateOrderStatus, m...)
}
