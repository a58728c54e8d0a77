package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite verifies persistence and listing of orders
// against a PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	reader     *orderrepo.GormOrderReader
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(orderrepo.Models()...))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_items, orders").Error)

	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
	suite.reader = orderrepo.NewGormOrderReader(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(7, time.Now())

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertOrderCount(1)
	var items int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderItemDTO{}).Count(&items).Error)
	suite.Equal(int64(2), items)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Duplicate_ReturnsInvalid() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(7, time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	err := suite.repository.Add(ctx, testOrder)

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_UnconstructedOrder_Rejected() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertOrderCount(0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrderWithItemsInOrder() {
	ctx := context.Background()
	original := suite.createTestOrder(7, time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())

	suite.Require().NoError(err)
	suite.True(retrieved.IsEqual(original))
	suite.Equal(int64(7), retrieved.CustomerID())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Equal("36.50", retrieved.TotalAmount().String())
	suite.Equal("1 Main St", retrieved.ShippingAddress())
	suite.Equal(int64(0), retrieved.Version())
	suite.True(original.OrderDate().Equal(retrieved.OrderDate()))

	items := retrieved.Items()
	suite.Require().Len(items, 2)
	suite.Equal("Keyboard", items[0].ProductName())
	suite.Equal("20.00", items[0].Subtotal().String())
	suite.Equal("Mouse", items[1].ProductName())
	suite.Equal("16.50", items[1].Subtotal().String())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Nil(retrieved)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MatchingVersion_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(7, time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder, 0))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrieved.Status())
	suite.Equal(int64(1), retrieved.Version())
	suite.True(testOrder.UpdatedAt().Equal(retrieved.UpdatedAt()))
	suite.Len(retrieved.Items(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConflict() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(7, time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))
	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder, 0))

	suite.Require().NoError(testOrder.ChangeStatus(order.Shipped, time.Now()))
	err := suite.repository.Update(ctx, testOrder, 0)

	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
	retrieved, getErr := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(getErr)
	suite.Equal(order.Confirmed, retrieved.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder_ReturnsNotFound() {
	testOrder := suite.createTestOrder(7, time.Now())

	err := suite.repository.Update(context.Background(), testOrder, 0)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_FiltersSortsAndPages() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for idx := range 5 {
		suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder(7, base.Add(time.Duration(idx)*time.Hour))))
	}
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder(8, base)))

	customer := int64(7)
	page, err := ports.NewPageRequest(1, 2, "orderDate", "desc")
	suite.Require().NoError(err)

	result, err := suite.reader.List(ctx, ports.OrderFilter{CustomerID: &customer}, page)

	suite.Require().NoError(err)
	suite.Equal(int64(5), result.TotalElements)
	suite.Equal(3, result.TotalPages())
	suite.Require().Len(result.Orders, 2)
	suite.True(result.Orders[0].OrderDate().Equal(base.Add(2 * time.Hour)))
	suite.True(result.Orders[1].OrderDate().Equal(base.Add(1 * time.Hour)))
	for _, o := range result.Orders {
		suite.Equal(customer, o.CustomerID())
		suite.Len(o.Items(), 2)
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_ByStatus() {
	ctx := context.Background()
	confirmed := suite.createTestOrder(7, time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, confirmed))
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder(8, time.Now())))
	suite.Require().NoError(confirmed.ChangeStatus(order.Confirmed, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, confirmed, 0))

	status := order.Confirmed
	page, err := ports.NewPageRequest(0, 10, "", "")
	suite.Require().NoError(err)

	result, err := suite.reader.List(ctx, ports.OrderFilter{Status: &status}, page)

	suite.Require().NoError(err)
	suite.Equal(int64(1), result.TotalElements)
	suite.Require().Len(result.Orders, 1)
	suite.Equal(confirmed.ID(), result.Orders[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountPlacedBefore() {
	ctx := context.Background()
	now := time.Now()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder(7, now.Add(-2*time.Hour))))
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder(7, now)))

	count, err := suite.reader.CountPlacedBefore(ctx, []order.Status{order.Pending}, now.Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	count, err = suite.reader.CountPlacedBefore(ctx, []order.Status{order.Confirmed}, now.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Equal(int64(0), count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestConcurrentReads() {
	ctx := context.Background()
	initialOrder := suite.createTestOrder(7, time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, initialOrder))

	results := make(chan *order.Order, 3)
	errors := make(chan error, 3)

	for range 3 {
		go func() {
			retrievedOrder, readErr := suite.reader.Get(ctx, initialOrder.ID())
			if readErr != nil {
				errors <- readErr
			} else {
				results <- retrievedOrder
			}
		}()
	}

	for range 3 {
		select {
		case result := <-results:
			suite.Equal(initialOrder.ID(), result.ID())
		case readErr := <-errors:
			suite.Failf("Unexpected error in concurrent read", "%v", readErr)
		}
	}
}

// createTestOrder creates a two item order totalling 36.50.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(customerID int64, placedAt time.Time) *order.Order {
	ten, err := kernel.MoneyFromString("10.00")
	suite.Require().NoError(err)
	fiveFifty, err := kernel.MoneyFromString("5.50")
	suite.Require().NoError(err)

	keyboard, err := order.NewItem(1, "Keyboard", ten, 2)
	suite.Require().NoError(err)
	mouse, err := order.NewItem(2, "Mouse", fiveFifty, 3)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(customerID, []order.Item{keyboard, mouse}, "1 Main St", "", placedAt)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
