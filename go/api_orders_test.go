package posserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-pos-api-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-pos-api-server/internal/domains/orders/application"
	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	usersmemory "github.com/Apurer/go-pos-api-server/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/go-pos-api-server/internal/domains/users/application"
	usersdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
)

func TestListOrders_ScopedToCashierSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	catalogRepo := catalogmemory.NewRepository()
	orderService := ordersapp.NewService(ordersmemory.NewRepository(), catalogRepo, ordersmemory.NewNumberSequence())
	userRepo := usersmemory.NewRepository()
	sessions := usersmemory.NewSessionStore()
	userService := usersapp.NewService(userRepo, sessions)

	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		OrdersAPI:   NewOrdersAPI(orderService, nil),
		ProductsAPI: NewProductsAPI(catalogapp.NewService(catalogRepo)),
		UsersAPI:    NewUsersAPI(userService),
	})

	product, err := catalogdomain.NewProduct(0, "Receipt Paper", catalogdomain.CategoryOther, decimal.NewFromInt(3), 100)
	require.NoError(t, err)
	savedProduct, err := catalogRepo.Save(ctx, product)
	require.NoError(t, err)

	seedSession := func(username string, role usersdomain.Role, token string) int64 {
		account, err := usersdomain.NewUser(0, username, "secret-pass", role)
		require.NoError(t, err)
		stored, err := userRepo.Save(ctx, account)
		require.NoError(t, err)
		require.NoError(t, sessions.Save(ctx, token, username))
		return stored.ID
	}
	adminID := seedSession("boss", usersdomain.RoleAdmin, "admin-token")
	cashierID := seedSession("till-one", usersdomain.RoleCashier, "cashier-token")

	sellAs := func(id int64) {
		_, err := orderService.Checkout(ctx, orderstypes.CheckoutInput{
			Items:         []orderstypes.LineRequest{{ProductID: savedProduct.Product.ID, Quantity: 1}},
			PaymentMethod: ordersdomain.PaymentCash,
			CashierID:     id,
			CashierName:   "staff",
		})
		require.NoError(t, err)
	}
	sellAs(adminID)
	sellAs(cashierID)

	listAs := func(token string) []listedOrder {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []listedOrder
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	// Admin sessions see the full ledger.
	require.Len(t, listAs("admin-token"), 2)

	// Cashier sessions see only their own sales.
	own := listAs("cashier-token")
	require.Len(t, own, 1)
	require.Equal(t, cashierID, own[0].CashierID)
}

// listedOrder decodes the response fields this test asserts on.
type listedOrder struct {
	ID        int64  `json:"id"`
	Number    string `json:"number"`
	CashierID int64  `json:"cashierId"`
}
