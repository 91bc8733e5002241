package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-pos-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/go-pos-api-server/internal/durable/temporal/workflows/orders"
	"github.com/Apurer/go-pos-api-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-pos-api-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-pos-api-server/internal/platform/postgres"
	orderactivities "github.com/Apurer/go-pos-api-server/internal/platform/temporal/activities/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "pos-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanupRepo := buildOrderService(ctx, logger, instruments)
	defer cleanupRepo()
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderCheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCheckoutWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.Checkout, activity.RegisterOptions{Name: orderactivities.CheckoutActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCheckoutTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderService assembles the sales service on postgres when available,
// falling back to in-memory adapters otherwise.
func buildOrderService(ctx context.Context, logger *slog.Logger, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	var (
		catalogRepo catalogports.Repository
		orderRepo   ordersports.Repository
		sequence    ordersports.NumberSequence
		idempotency ordersports.IdempotencyStore
	)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("worker failed to apply schema", slog.String("error", err.Error()))
			cleanup()
			os.Exit(1)
		}
		catalogRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewRepository(db)
		sequence = orderspostgres.NewNumberSequence(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
	} else {
		catalogRepo = catalogmemory.NewRepository()
		orderRepo = ordersmemory.NewRepository()
		sequence = ordersmemory.NewNumberSequence()
		idempotency = ordersmemory.NewIdempotencyStore()
	}
	service := ordersobs.New(
		ordersapp.NewService(orderRepo, catalogRepo, sequence, ordersapp.WithIdempotencyStore(idempotency)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
