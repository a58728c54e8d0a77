package cmd

import (
	"fmt"
	"log/slog"

	"ordering/internal/adapters/out/catalog"
	"ordering/internal/adapters/out/memory"
	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/ports"
	"ordering/internal/jobs"
	"ordering/internal/pkg/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	uowFactory ports.UnitOfWorkFactory
	reader     ports.OrderReader
	catalog    ports.CatalogClient
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewCompositionRoot wires persistence and the catalog client. A nil gormDB selects
// the in-memory store.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, m *metrics.Metrics, logger *slog.Logger) (CompositionRoot, error) {
	catalogClient, err := catalog.NewClient(configs.CatalogConfig(), nil, m, logger)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("failed to create catalog client: %w", err)
	}

	root := CompositionRoot{
		configs: configs,
		catalog: catalogClient,
		metrics: m,
		logger:  logger,
	}

	if gormDB != nil {
		root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		root.reader = orderrepo.NewGormOrderReader(gormDB)
	} else {
		store := memory.NewOrderStore()
		root.uowFactory = memory.NewUnitOfWorkFactory(store)
		root.reader = store
	}

	return root, nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.catalog, c.configs.CatalogFetchConcurrency, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListCustomerOrdersQueryHandler() queries.ListCustomerOrdersQueryHandler {
	return queries.NewListCustomerOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateCountStaleOrdersQueryHandler() queries.CountStaleOrdersQueryHandler {
	return queries.NewCountStaleOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	staleOrderMonitorJob, err := jobs.NewStaleOrderMonitorJob(
		c.CreateCountStaleOrdersQueryHandler(),
		c.configs.StaleOrderAge,
		c.configs.StaleOrderSchedule,
		c.metrics,
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(staleOrderMonitorJob), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
