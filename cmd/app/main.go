package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordering/api"
	"ordering/cmd"
	httpin "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/postgres/orderrepo"
	"ordering/internal/pkg/metrics"
	"ordering/internal/pkg/observability"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const serviceName = "ordering"

func main() {
	configs := getConfigs()

	logger := observability.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var spanWriter io.Writer
	if configs.TracingStdout {
		spanWriter = os.Stdout
	}
	tracing, err := observability.InitTracing(ctx, serviceName, spanWriter)
	if err != nil {
		log.Fatalf("Error initializing tracing: %v", err)
	}

	gormDB := mustOpenDatabase(configs, logger)

	app, err := cmd.NewCompositionRoot(configs, gormDB, metrics.New(), logger)
	if err != nil {
		log.Fatalf("Error creating composition root: %v", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Error creating jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e := newWebServer(ctx, &app, logger)
	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			e.Logger.Fatal(startErr)
		}
	}()
	logger.InfoContext(ctx, "Ordering service started", "port", configs.HTTPPort, "database", configs.UsesDatabase())

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jobManager.StopAll()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if err = tracing.Shutdown(shutdownCtx); err != nil {
		logger.Error("Tracing shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return configs
}

func mustOpenDatabase(configs cmd.Config, logger *slog.Logger) *gorm.DB {
	if !configs.UsesDatabase() {
		logger.Warn("DB_HOST is not set, orders are kept in memory")
		return nil
	}

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = gormDB.AutoMigrate(orderrepo.Models()...); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func newWebServer(ctx context.Context, app *cmd.CompositionRoot, logger *slog.Logger) *echo.Echo {
	doc, err := api.Load(ctx)
	if err != nil {
		log.Fatalf("Error loading OpenAPI document: %v", err)
	}

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateListCustomerOrdersQueryHandler(),
		app.CreateListOrdersQueryHandler(),
		app.Metrics(),
	)

	e := httpin.NewRouter(server, doc, app.Metrics(), logger)
	e.Logger.SetLevel(log.INFO)
	return e
}
