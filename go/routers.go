// Package posserver exposes the retail point-of-sale HTTP API over gin.
package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access names the authorization level a route requires.
type Access int

const (
	// AccessPublic routes need no session.
	AccessPublic Access = iota
	// AccessStaff routes need any valid session.
	AccessStaff
	// AccessAdmin routes need a session with the admin role.
	AccessAdmin
)

// Route binds an HTTP method and path to a handler with its required access level.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	Access      Access
	HandlerFunc gin.HandlerFunc
}

// Routes is a list of Route definitions.
type Routes []Route

// ApiHandleFunctions groups the API handlers per bounded context.
type ApiHandleFunctions struct {
	OrdersAPI   OrdersAPI
	ProductsAPI ProductsAPI
	UsersAPI    UsersAPI
}

// NewRouter returns a gin engine with all API routes registered.
func NewRouter(handlers ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handlers)
}

// NewRouterWithGinEngine registers all API routes on an existing gin engine.
// Staff routes sit behind session authentication, admin routes additionally
// behind a role check.
func NewRouterWithGinEngine(router *gin.Engine, handlers ApiHandleFunctions) *gin.Engine {
	auth := authGuard(handlers.UsersAPI.service)
	admin := adminGuard()
	for _, route := range getRoutes(handlers) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandleFunc
		}
		chain := make([]gin.HandlerFunc, 0, 3)
		switch route.Access {
		case AccessAdmin:
			chain = append(chain, auth, admin)
		case AccessStaff:
			chain = append(chain, auth)
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	return router
}

// defaultHandleFunc answers unimplemented routes with 404.
func defaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found")
}

func getRoutes(handlers ApiHandleFunctions) Routes {
	return Routes{
		{
			"Health",
			http.MethodGet,
			"/health",
			AccessPublic,
			func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
		},
		{
			"Login",
			http.MethodPost,
			"/api/users/login",
			AccessPublic,
			handlers.UsersAPI.Login,
		},
		{
			"Logout",
			http.MethodPost,
			"/api/users/logout",
			AccessStaff,
			handlers.UsersAPI.Logout,
		},
		{
			"CurrentUser",
			http.MethodGet,
			"/api/users/me",
			AccessStaff,
			handlers.UsersAPI.CurrentUser,
		},
		{
			"CreateUser",
			http.MethodPost,
			"/api/users",
			AccessAdmin,
			handlers.UsersAPI.CreateUser,
		},
		{
			"ListUsers",
			http.MethodGet,
			"/api/users",
			AccessAdmin,
			handlers.UsersAPI.ListUsers,
		},
		{
			"GetUser",
			http.MethodGet,
			"/api/users/:username",
			AccessAdmin,
			handlers.UsersAPI.GetUser,
		},
		{
			"UpdateUser",
			http.MethodPut,
			"/api/users/:username",
			AccessAdmin,
			handlers.UsersAPI.UpdateUser,
		},
		{
			"DeleteUser",
			http.MethodDelete,
			"/api/users/:username",
			AccessAdmin,
			handlers.UsersAPI.DeleteUser,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/api/products",
			AccessAdmin,
			handlers.ProductsAPI.CreateProduct,
		},
		{
			"ListProducts",
			http.MethodGet,
			"/api/products",
			AccessStaff,
			handlers.ProductsAPI.ListProducts,
		},
		{
			"LowStockProducts",
			http.MethodGet,
			"/api/products/low-stock",
			AccessStaff,
			handlers.ProductsAPI.LowStockProducts,
		},
		{
			"GetProduct",
			http.MethodGet,
			"/api/products/:id",
			AccessStaff,
			handlers.ProductsAPI.GetProduct,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/api/products/:id",
			AccessAdmin,
			handlers.ProductsAPI.UpdateProduct,
		},
		{
			"UpdateStock",
			http.MethodPut,
			"/api/products/:id/stock",
			AccessAdmin,
			handlers.ProductsAPI.UpdateStock,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/api/products/:id",
			AccessAdmin,
			handlers.ProductsAPI.DeleteProduct,
		},
		{
			"Checkout",
			http.MethodPost,
			"/api/orders",
			AccessStaff,
			handlers.OrdersAPI.Checkout,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/api/orders",
			AccessStaff,
			handlers.OrdersAPI.ListOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/api/orders/:id",
			AccessStaff,
			handlers.OrdersAPI.GetOrder,
		},
		{
			"GetReceipt",
			http.MethodGet,
			"/api/orders/:id/receipt",
			AccessStaff,
			handlers.OrdersAPI.GetReceipt,
		},
		{
			"RefundOrder",
			http.MethodPost,
			"/api/orders/:id/refund",
			AccessAdmin,
			handlers.OrdersAPI.RefundOrder,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/api/orders/:id/status",
			AccessAdmin,
			handlers.OrdersAPI.UpdateOrderStatus,
		},
	}
}
