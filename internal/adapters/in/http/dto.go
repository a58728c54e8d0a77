package http

import (
	"encoding/json"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/google/uuid"
)

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	CustomerID      int64          `json:"customerId"`
	Items           []NewOrderItem `json:"items"`
	ShippingAddress *string        `json:"shippingAddress,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
}

// NewOrderItem is one requested line.
type NewOrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// StatusChange is the body of PUT /api/v1/orders/{id}/status.
type StatusChange struct {
	Status string `json:"status"`
}

// Order is the representation of an order.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	CustomerID      int64       `json:"customerId"`
	OrderDate       time.Time   `json:"orderDate"`
	TotalAmount     json.Number `json:"totalAmount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shippingAddress"`
	Notes           string      `json:"notes"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Items           []OrderItem `json:"items"`
}

// OrderItem is the representation of an order line.
type OrderItem struct {
	ID          uuid.UUID   `json:"id"`
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
	Subtotal    json.Number `json:"subtotal"`
}

// OrderPage is one page of a listing.
type OrderPage struct {
	Content          []Order `json:"content"`
	Number           int     `json:"number"`
	Size             int     `json:"size"`
	TotalElements    int64   `json:"totalElements"`
	TotalPages       int     `json:"totalPages"`
	First            bool    `json:"first"`
	Last             bool    `json:"last"`
	NumberOfElements int     `json:"numberOfElements"`
	Empty            bool    `json:"empty"`
}

// amount renders money as a JSON number with exactly two fractional digits.
func amount(m kernel.Money) json.Number {
	return json.Number(m.String())
}

func toOrder(o *order.Order) Order {
	items := o.Items()
	response := Order{
		ID:              o.ID().Bytes(),
		CustomerID:      o.CustomerID(),
		OrderDate:       o.OrderDate(),
		TotalAmount:     amount(o.TotalAmount()),
		Status:          o.Status().String(),
		ShippingAddress: o.ShippingAddress(),
		Notes:           o.Notes(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		Items:           make([]OrderItem, len(items)),
	}
	for i, item := range items {
		response.Items[i] = OrderItem{
			ID:          item.ID().Bytes(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			Price:       amount(item.Price()),
			Subtotal:    amount(item.Subtotal()),
		}
	}
	return response
}

func toOrderPage(page ports.OrderPage) OrderPage {
	content := make([]Order, len(page.Orders))
	for i, o := range page.Orders {
		content[i] = toOrder(o)
	}
	return OrderPage{
		Content:          content,
		Number:           page.Number,
		Size:             page.Size,
		TotalElements:    page.TotalElements,
		TotalPages:       page.TotalPages(),
		First:            page.IsFirst(),
		Last:             page.IsLast(),
		NumberOfElements: len(content),
		Empty:            len(content) == 0,
	}
}

func (p PageParams) toPageRequest() (ports.PageRequest, error) {
	number, size := 0, ports.DefaultPageSize
	var sortBy, sortDir string
	if p.Page != nil {
		number = *p.Page
	}
	if p.Size != nil {
		size = *p.Size
	}
	if p.SortBy != nil {
		sortBy = *p.SortBy
	}
	if p.SortDir != nil {
		sortDir = *p.SortDir
	}
	return ports.NewPageRequest(number, size, sortBy, sortDir)
}
