//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/Apurer/go-pos-api-server/test/pact"

	posserver "github.com/Apurer/go-pos-api-server/go"
	catalogmemory "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-pos-api-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-pos-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	usersmemory "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/memory"
	usersobs "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/observability"
	usersapp "github.com/Apurer/go-pos-api-server/internal/domains/users/application"
	usersdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPosProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCashierExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCashier(t)
			}
			return nil, nil
		},
		pacttest.StateSessionActive: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCashier(t)
				app.seedSession(t)
				app.seedProduct(t, pacttest.ExistingProductID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCashier(t)
				app.seedSession(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	catalog  *catalogmemory.Repository
	orders   *ordersmemory.Repository
	users    *usersmemory.Repository
	sessions *usersmemory.SessionStore
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	catalogRepo := catalogmemory.NewRepository()
	catalogService := catalogobs.New(catalogapp.NewService(catalogRepo))

	orderRepo := ordersmemory.NewRepository()
	orderService := ordersobs.New(ordersapp.NewService(
		orderRepo,
		catalogRepo,
		ordersmemory.NewNumberSequence(),
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	))
	workflows := ordersworkflows.NewInlineOrderWorkflows(orderService)

	userRepo := usersmemory.NewRepository()
	sessions := usersmemory.NewSessionStore()
	userService := usersobs.New(usersapp.NewService(userRepo, sessions))

	handlers := posserver.ApiHandleFunctions{
		OrdersAPI:   posserver.NewOrdersAPI(orderService, workflows),
		ProductsAPI: posserver.NewProductsAPI(catalogService),
		UsersAPI:    posserver.NewUsersAPI(userService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = posserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		catalog:  catalogRepo,
		orders:   orderRepo,
		users:    userRepo,
		sessions: sessions,
		server:   server,
	}
}

// reset drops accumulated orders between interactions. Products, accounts, and
// sessions are keyed upserts, so re-seeding them overwrites any prior state.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	orders, err := a.orders.List(ctx, ordersports.ListFilter{})
	require.NoError(t, err)
	for _, projection := range orders {
		_ = a.orders.Delete(ctx, projection.Order.ID)
	}
}

func (a *contractProviderApp) seedCashier(t testing.TB) {
	t.Helper()
	cashier, err := usersdomain.NewUser(0, pacttest.CashierUsername, pacttest.CashierPassword, usersdomain.RoleCashier)
	require.NoError(t, err)
	_, err = a.users.Save(context.Background(), cashier)
	require.NoError(t, err)
}

func (a *contractProviderApp) seedSession(t testing.TB) {
	t.Helper()
	require.NoError(t, a.sessions.Save(context.Background(), pacttest.SessionToken, pacttest.CashierUsername))
}

func (a *contractProviderApp) seedProduct(t testing.TB, id int64) {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, "Pact Test Widget", catalogdomain.CategoryOther, decimal.NewFromInt(10), 10)
	require.NoError(t, err)
	_, err = a.catalog.Save(context.Background(), product)
	require.NoError(t, err)
}
