package queries

import (
	"errors"
	"fmt"

	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrListCustomerOrdersQueryIsNotConstructed = errors.New(
		"ListCustomerOrdersQuery must be created via NewListCustomerOrdersQuery constructor",
	)
)

// ListCustomerOrdersQuery pages through the orders of one customer.
//
// Example:
//
//	page, _ := ports.NewPageRequest(0, 10, "orderDate", "desc")
//	query, err := NewListCustomerOrdersQuery(42, page)
type ListCustomerOrdersQuery struct { //nolint:recvcheck //using for validation
	customerID int64
	page       ports.PageRequest
	guard      guard.ConstructorGuard
}

// NewListCustomerOrdersQuery creates a listing for customerID. The page must come from ports.NewPageRequest.
func NewListCustomerOrdersQuery(customerID int64, page ports.PageRequest) (ListCustomerOrdersQuery, error) {
	if customerID <= 0 {
		return ListCustomerOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("customerId",
			fmt.Errorf("%d is not greater than 0", customerID))
	}
	if err := validatePage(page); err != nil {
		return ListCustomerOrdersQuery{}, err
	}

	return ListCustomerOrdersQuery{
		customerID: customerID,
		page:       page,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListCustomerOrdersQueryIsNotConstructed)
}

// CustomerID returns the customer whose orders are listed.
func (q ListCustomerOrdersQuery) CustomerID() int64 {
	return q.customerID
}

// Page returns the requested page.
func (q ListCustomerOrdersQuery) Page() ports.PageRequest {
	return q.page
}

// validatePage rejects page requests that bypassed ports.NewPageRequest.
func validatePage(page ports.PageRequest) error {
	_, err := ports.NewPageRequest(page.Number, page.Size, string(page.SortBy), string(page.Direction))
	return err
}
