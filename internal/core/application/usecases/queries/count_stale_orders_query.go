package queries

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrCountStaleOrdersQueryIsNotConstructed = errors.New(
		"CountStaleOrdersQuery must be created via NewCountStaleOrdersQuery constructor",
	)
)

// CountStaleOrdersQuery counts orders still awaiting fulfilment after maxAge.
type CountStaleOrdersQuery struct { //nolint:recvcheck //using for validation
	maxAge time.Duration
	guard  guard.ConstructorGuard
}

// NewCountStaleOrdersQuery creates a query for orders placed more than maxAge ago.
func NewCountStaleOrdersQuery(maxAge time.Duration) (CountStaleOrdersQuery, error) {
	if maxAge <= 0 {
		return CountStaleOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("maxAge",
			fmt.Errorf("%s is not positive", maxAge))
	}
	return CountStaleOrdersQuery{maxAge: maxAge, guard: guard.NewConstructorGuard()}, nil
}

func (q CountStaleOrdersQuery) Validate() error {
	return q.guard.Validate(ErrCountStaleOrdersQueryIsNotConstructed)
}

func (q CountStaleOrdersQuery) MaxAge() time.Duration {
	return q.maxAge
}
