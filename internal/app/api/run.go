package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	posserver "github.com/Apurer/go-pos-api-server/go"

	catalogmemory "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-pos-api-server/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"

	ordersmemory "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-pos-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"

	usersmemory "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/memory"
	usersobs "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/observability"
	userspostgres "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/Apurer/go-pos-api-server/internal/domains/users/application"
	usersdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
	usersports "github.com/Apurer/go-pos-api-server/internal/domains/users/ports"

	"github.com/Apurer/go-pos-api-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-pos-api-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-pos-api-server/internal/platform/postgres"
)

// Run boots the point-of-sale HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "pos-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	var catalogRepo catalogports.Repository
	if db != nil {
		catalogRepo = catalogpostgres.NewRepository(db)
	} else {
		catalogRepo = catalogmemory.NewRepository()
	}
	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	var (
		orderRepo   ordersports.Repository
		sequence    ordersports.NumberSequence
		idempotency ordersports.IdempotencyStore
	)
	if db != nil {
		orderRepo = orderspostgres.NewRepository(db)
		sequence = orderspostgres.NewNumberSequence(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
	} else {
		orderRepo = ordersmemory.NewRepository()
		sequence = ordersmemory.NewNumberSequence()
		idempotency = ordersmemory.NewIdempotencyStore()
	}
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, catalogRepo, sequence, ordersapp.WithIdempotencyStore(idempotency)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.CheckoutOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if cfg.TemporalDisabled {
		logger.Info("Temporal disabled, running checkout inline")
	} else if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	var (
		userRepo usersports.Repository
		sessions usersports.SessionStore
	)
	if db != nil {
		userRepo = userspostgres.NewRepository(db)
		sessions = userspostgres.NewSessionStore(db, cfg.SessionTTL)
	} else {
		userRepo = usersmemory.NewRepository()
		sessions = usersmemory.NewSessionStore()
	}
	userService := usersobs.New(
		usersapp.NewService(userRepo, sessions),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	seedAdminAccount(ctx, logger, cfg, userService)

	handlers := posserver.ApiHandleFunctions{
		OrdersAPI:   posserver.NewOrdersAPI(orderService, orderWorkflows),
		ProductsAPI: posserver.NewProductsAPI(catalogService),
		UsersAPI:    posserver.NewUsersAPI(userService),
	}

	router := posserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("POS API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("POS API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// seedAdminAccount creates the bootstrap admin when configured and absent.
// Without it a fresh deployment has no account able to create staff users.
func seedAdminAccount(ctx context.Context, logger *slog.Logger, cfg Config, users usersports.Service) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		logger.Info("admin bootstrap not configured, skipping")
		return
	}
	if _, err := users.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		return
	} else if !errors.Is(err, usersports.ErrNotFound) {
		logger.Warn("admin bootstrap lookup failed", slog.String("error", err.Error()))
		return
	}
	admin, err := usersdomain.NewUser(0, cfg.AdminUsername, cfg.AdminPassword, usersdomain.RoleAdmin)
	if err != nil {
		logger.Warn("admin bootstrap rejected", slog.String("error", err.Error()))
		return
	}
	if _, err := users.CreateUser(ctx, admin); err != nil {
		logger.Warn("admin bootstrap failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("admin account bootstrapped", slog.String("username", cfg.AdminUsername))
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
