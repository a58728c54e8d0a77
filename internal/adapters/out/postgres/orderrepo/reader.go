package orderrepo

import (
	"context"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps listing sort fields to orders columns.
var sortColumns = map[ports.SortField]string{
	ports.SortByOrderDate:   "order_date",
	ports.SortByTotalAmount: "total_amount",
	ports.SortByStatus:      "status",
	ports.SortByCreatedAt:   "created_at",
	ports.SortByUpdatedAt:   "updated_at",
	ports.SortByCustomerID:  "customer_id",
	ports.SortByID:          "id",
}

// GormOrderReader implements ports.OrderReader directly on the connection pool.
type GormOrderReader struct {
	db *gorm.DB
}

var _ ports.OrderReader = (*GormOrderReader)(nil)

func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{
		db: db,
	}
}

// Get loads a committed order with its items.
func (r *GormOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return getOrder(ctx, r.db, id)
}

// List counts the matching rows, then loads one page sorted by the requested column with id as tiebreaker.
func (r *GormOrderReader) List(ctx context.Context, filter ports.OrderFilter, page ports.PageRequest) (ports.OrderPage, error) {
	column, ok := sortColumns[page.SortBy]
	if !ok {
		return ports.OrderPage{}, fmt.Errorf("unsupported sort field %q", page.SortBy)
	}
	desc := page.Direction == ports.SortDesc
	scope := filterScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Scopes(scope).Count(&total).Error; err != nil {
		return ports.OrderPage{}, err
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Items", orderItemsByPosition).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&dtos).Error; err != nil {
		return ports.OrderPage{}, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return ports.OrderPage{}, err
		}
		orders = append(orders, o)
	}

	return ports.OrderPage{
		Orders:        orders,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: total,
	}, nil
}

// CountPlacedBefore counts orders in any of statuses with an orderDate before the given time.
func (r *GormOrderReader) CountPlacedBefore(ctx context.Context, statuses []order.Status, before time.Time) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, status.String())
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("status = ANY(?) AND order_date < ?", pq.Array(names), before.UTC()).
		Count(&count).Error
	return count, err
}

func filterScope(filter ports.OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.CustomerID != nil {
			db = db.Where("customer_id = ?", *filter.CustomerID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", filter.Status.String())
		}
		return db
	}
}
