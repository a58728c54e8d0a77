package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ordering/api"
	httpin "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/memory"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type funcOrderUoWFactory func() commands.OrderUoW

func (f funcOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type fakeCatalog struct {
	products map[int64]ports.ProductSnapshot
	down     bool
}

func (c *fakeCatalog) FetchProduct(_ context.Context, productID int64) (ports.ProductSnapshot, error) {
	if c.down {
		return ports.ProductSnapshot{}, errs.NewUpstreamFailureError("catalog", io.ErrUnexpectedEOF)
	}
	p, ok := c.products[productID]
	if !ok {
		return ports.ProductSnapshot{}, errs.NewObjectNotFoundError("product", productID)
	}
	return p, nil
}

func (c *fakeCatalog) CheckAvailability(ctx context.Context, productID int64, quantity int) error {
	p, err := c.FetchProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return errs.NewObjectIsUnavailableError("product", productID, "inactive")
	}
	if p.StockQuantity < quantity {
		return errs.NewObjectIsUnavailableErrorWithCause("product", productID, "insufficient-stock",
			fmt.Errorf("available %d, requested %d", p.StockQuantity, quantity))
	}
	return nil
}

type ServerTestSuite struct {
	suite.Suite
	catalog *fakeCatalog
	router  *echo.Echo
}

func (suite *ServerTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewOrderStore()
	uows := memory.NewUnitOfWorkFactory(store)
	factory := funcOrderUoWFactory(func() commands.OrderUoW { return uows.Create() })

	suite.catalog = &fakeCatalog{products: map[int64]ports.ProductSnapshot{
		1: {ID: 1, Name: "Keyboard", Price: decimal.RequireFromString("10.00"), StockQuantity: 10, IsActive: true},
		2: {ID: 2, Name: "Mouse", Price: decimal.RequireFromString("5.50"), StockQuantity: 10, IsActive: true},
		3: {ID: 3, Name: "Monitor", Price: decimal.RequireFromString("199.99"), StockQuantity: 2, IsActive: true},
	}}

	doc, err := api.Load(context.Background())
	suite.Require().NoError(err)

	m := metrics.New()
	server := httpin.NewServer(
		commands.NewCreateOrderCommandHandler(factory, suite.catalog, 1, logger),
		commands.NewUpdateOrderStatusCommandHandler(factory, logger),
		queries.NewGetOrderQueryHandler(store),
		queries.NewListCustomerOrdersQueryHandler(store),
		queries.NewListOrdersQueryHandler(store),
		m,
	)
	suite.router = httpin.NewRouter(server, doc, m, logger)
}

func (suite *ServerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) decode(rec *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), into), rec.Body.String())
}

func (suite *ServerTestSuite) createOrder(customerID string) httpin.Order {
	rec := suite.do(http.MethodPost, "/api/v1/orders",
		`{"customerId":`+customerID+`,"items":[{"productId":1,"quantity":2},{"productId":2,"quantity":3}],"shippingAddress":"1 Main St"}`)
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created httpin.Order
	suite.decode(rec, &created)
	return created
}

func (suite *ServerTestSuite) TestCreateOrder_Created() {
	rec := suite.do(http.MethodPost, "/api/v1/orders",
		`{"customerId":7,"items":[{"productId":1,"quantity":2},{"productId":2,"quantity":3}],"notes":"ring twice"}`)

	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	suite.Contains(rec.Body.String(), `"totalAmount":36.50`)

	var created httpin.Order
	suite.decode(rec, &created)
	suite.Equal(int64(7), created.CustomerID)
	suite.Equal("PENDING", created.Status)
	suite.Equal("ring twice", created.Notes)
	suite.Require().Len(created.Items, 2)
	suite.Equal("Keyboard", created.Items[0].ProductName)
	suite.Equal("20.00", created.Items[0].Subtotal.String())
	suite.Equal("Mouse", created.Items[1].ProductName)
	suite.Equal("16.50", created.Items[1].Subtotal.String())
}

func (suite *ServerTestSuite) TestCreateOrder_ValidationFailures() {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing items", body: `{"customerId":7}`},
		{name: "empty items", body: `{"customerId":7,"items":[]}`, field: "items"},
		{name: "zero quantity", body: `{"customerId":7,"items":[{"productId":1,"quantity":0}]}`, field: "items[0].quantity"},
		{name: "quantity above limit", body: `{"customerId":7,"items":[{"productId":1,"quantity":10001}]}`, field: "items[0].quantity"},
		{name: "missing customer", body: `{"customerId":0,"items":[{"productId":1,"quantity":1}]}`, field: "customerId"},
		{name: "wrong type", body: `{"customerId":"seven","items":[{"productId":1,"quantity":1}]}`, field: "customerId"},
		{name: "address too long", body: `{"customerId":7,"items":[{"productId":1,"quantity":1}],"shippingAddress":"` + strings.Repeat("a", 501) + `"}`, field: "shippingAddress"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			rec := suite.do(http.MethodPost, "/api/v1/orders", tt.body)

			suite.Require().Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
			var response httpin.ErrorResponse
			suite.decode(rec, &response)
			suite.Equal(httpin.CodeValidationFailed, response.Code)
			suite.Equal("/api/v1/orders", response.Path)
			suite.NotEmpty(response.FieldErrors)
			if tt.field != "" {
				suite.Contains(response.FieldErrors, tt.field)
			}
		})
	}
}

func (suite *ServerTestSuite) TestCreateOrder_CatalogOutcomes() {
	tests := []struct {
		name    string
		body    string
		down    bool
		status  int
		code    string
		message string
	}{
		{
			name:    "insufficient stock",
			body:    `{"customerId":7,"items":[{"productId":3,"quantity":5}]}`,
			status:  http.StatusUnprocessableEntity,
			code:    httpin.CodeProductUnavailable,
			message: "object is unavailable: product 3 is insufficient-stock (cause: available 2, requested 5)",
		},
		{
			name:    "unknown product",
			body:    `{"customerId":7,"items":[{"productId":99,"quantity":1}]}`,
			status:  http.StatusNotFound,
			code:    httpin.CodeNotFound,
			message: "object not found: product 99",
		},
		{name: "catalog down", body: `{"customerId":7,"items":[{"productId":1,"quantity":1}]}`, down: true, status: http.StatusBadGateway, code: httpin.CodeUpstreamFailure},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.catalog.down = tt.down
			defer func() { suite.catalog.down = false }()

			rec := suite.do(http.MethodPost, "/api/v1/orders", tt.body)

			suite.Require().Equal(tt.status, rec.Code, rec.Body.String())
			var response httpin.ErrorResponse
			suite.decode(rec, &response)
			suite.Equal(tt.code, response.Code)
			if tt.message != "" {
				suite.Equal(tt.message, response.Message)
			}
		})
	}

	list := suite.do(http.MethodGet, "/api/v1/orders", "")
	var page httpin.OrderPage
	suite.decode(list, &page)
	suite.True(page.Empty, "failed creations must not persist anything")
}

func (suite *ServerTestSuite) TestGetOrder() {
	created := suite.createOrder("7")

	rec := suite.do(http.MethodGet, "/api/v1/orders/"+created.ID.String(), "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	var found httpin.Order
	suite.decode(rec, &found)
	suite.Equal(created.ID, found.ID)

	missing := suite.do(http.MethodGet, "/api/v1/orders/1b4e28ba-2fa1-11d2-883f-0016d3cca427", "")
	suite.Equal(http.StatusNotFound, missing.Code)

	malformed := suite.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")
	suite.Equal(http.StatusBadRequest, malformed.Code)
}

func (suite *ServerTestSuite) TestUpdateOrderStatus() {
	created := suite.createOrder("7")
	target := "/api/v1/orders/" + created.ID.String() + "/status"

	rec := suite.do(http.MethodPut, target, `{"status":"confirmed"}`)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated httpin.Order
	suite.decode(rec, &updated)
	suite.Equal("CONFIRMED", updated.Status)

	rejected := suite.do(http.MethodPut, target, `{"status":"PENDING"}`)
	suite.Require().Equal(http.StatusConflict, rejected.Code)
	var response httpin.ErrorResponse
	suite.decode(rejected, &response)
	suite.Equal(httpin.CodeInvalidStatusTransition, response.Code)
	suite.Contains(response.Message, "CONFIRMED")
	suite.Contains(response.Message, "PENDING")

	unknown := suite.do(http.MethodPut, target, `{"status":"LOST"}`)
	suite.Equal(http.StatusBadRequest, unknown.Code)

	missing := suite.do(http.MethodPut, target, `{}`)
	suite.Equal(http.StatusBadRequest, missing.Code)
}

func (suite *ServerTestSuite) TestListCustomerOrders_Paging() {
	for range 3 {
		suite.createOrder("7")
	}
	suite.createOrder("8")

	rec := suite.do(http.MethodGet, "/api/v1/orders/customer/7?page=1&size=2&sortBy=totalAmount&sortDir=ASC", "")

	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var page httpin.OrderPage
	suite.decode(rec, &page)
	suite.Equal(int64(3), page.TotalElements)
	suite.Equal(2, page.TotalPages)
	suite.Equal(1, page.Number)
	suite.Equal(2, page.Size)
	suite.Equal(1, page.NumberOfElements)
	suite.False(page.First)
	suite.True(page.Last)
	suite.False(page.Empty)
}

func (suite *ServerTestSuite) TestListOrders_ByStatus() {
	confirmed := suite.createOrder("7")
	suite.createOrder("8")
	rec := suite.do(http.MethodPut, "/api/v1/orders/"+confirmed.ID.String()+"/status", `{"status":"CONFIRMED"}`)
	suite.Require().Equal(http.StatusOK, rec.Code)

	list := suite.do(http.MethodGet, "/api/v1/orders?status=confirmed", "")

	suite.Require().Equal(http.StatusOK, list.Code, list.Body.String())
	var page httpin.OrderPage
	suite.decode(list, &page)
	suite.Require().Len(page.Content, 1)
	suite.Equal(confirmed.ID, page.Content[0].ID)
}

func (suite *ServerTestSuite) TestListOrders_InvalidPaging() {
	for _, query := range []string{"size=500", "size=0", "page=-1", "sortDir=sideways", "sortBy=colour", "page=abc", "status=LOST"} {
		suite.Run(query, func() {
			rec := suite.do(http.MethodGet, "/api/v1/orders?"+query, "")
			suite.Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func (suite *ServerTestSuite) TestHealthAndMetrics() {
	health := suite.do(http.MethodGet, "/health", "")
	suite.Equal(http.StatusOK, health.Code)
	suite.Equal("Healthy", health.Body.String())

	suite.createOrder("7")
	rec := suite.do(http.MethodGet, "/metrics", "")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `ordering_http_requests_total{method="POST",route="/api/v1/orders",status="201"} 1`)
	suite.Contains(rec.Body.String(), "ordering_orders_created_total 1")
}

func (suite *ServerTestSuite) TestUnknownRoute() {
	rec := suite.do(http.MethodGet, "/api/v2/nothing", "")

	suite.Equal(http.StatusNotFound, rec.Code)
	var response httpin.ErrorResponse
	suite.decode(rec, &response)
	suite.Equal(httpin.CodeNotFound, response.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
