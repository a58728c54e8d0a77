package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is the catalog's view of a product at the moment it was read.
type ProductSnapshot struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	IsActive      bool
}

// CatalogClient is a read-only accessor to the external catalog authority.
//
// Domain outcomes and transport failures are reported with distinct error kinds:
//   - *errs.ObjectNotFoundError when the product does not exist
//   - *errs.ObjectIsUnavailableError when it is inactive or lacks stock
//   - *errs.UpstreamFailureError when the catalog could not be reached,
//     timed out, or answered unexpectedly
type CatalogClient interface {
	// FetchProduct returns the current name, price, stock and active flag of a product.
	FetchProduct(ctx context.Context, productID int64) (ProductSnapshot, error)

	// CheckAvailability succeeds when the product is active and has at least quantity units in stock.
	CheckAvailability(ctx context.Context, productID int64, quantity int) error
}
