package ports

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"ordering/internal/pkg/errs"
)

// NewPageRequest validates paging and sorting input.
//
// An empty sortBy defaults to orderDate. The direction is matched case-insensitively:
// "asc" sorts ascending, an empty value sorts descending and anything else is rejected.
//
// Example:
//
//	page, err := ports.NewPageRequest(0, 10, "totalAmount", "ASC")
func NewPageRequest(number int, size int, sortBy string, direction string) (PageRequest, error) {
	var validationErrs []error

	if number < 0 {
		validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("page", fmt.Errorf("%d is negative", number)))
	}
	if size < 1 || size > MaxPageSize {
		validationErrs = append(validationErrs, errs.NewValueIsOutOfRangeError("size", size, 1, MaxPageSize))
	}

	field := SortByOrderDate
	if sortBy != "" {
		field = SortField(sortBy)
		if !slices.Contains(SortFields(), field) {
			validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("sortBy",
				fmt.Errorf("%q is not a sortable field", sortBy)))
		}
	}

	dir := SortDesc
	switch strings.ToLower(direction) {
	case "", string(SortDesc):
	case string(SortAsc):
		dir = SortAsc
	default:
		validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("sortDir",
			fmt.Errorf("%q is neither asc nor desc", direction)))
	}

	if err := errors.Join(validationErrs...); err != nil {
		return PageRequest{}, err
	}

	return PageRequest{
		Number:    number,
		Size:      size,
		SortBy:    field,
		Direction: dir,
	}, nil
}
