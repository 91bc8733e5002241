package posserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-pos-api-server/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/Apurer/go-pos-api-server/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	usersdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
)

// idempotencyKeyHeader carries the client-chosen key that makes checkout retries safe.
const idempotencyKeyHeader = "Idempotency-Key"

// OrdersAPI wires HTTP transport with the sales bounded context service and workflows.
type OrdersAPI struct {
	service   ordersports.Service
	workflows ordersports.CheckoutOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service, workflows ordersports.CheckoutOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, workflows: workflows}
}

// Post /api/orders
// Price and commit a sale
func (api *OrdersAPI) Checkout(c *gin.Context) {
	var payload orderhttpmapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	cashier := currentUser(c)
	input := orderhttpmapper.ToCheckoutInput(payload, cashier.ID, cashierDisplayName(cashier), c.GetHeader(idempotencyKeyHeader))
	order, err := api.checkout(c.Request.Context(), input)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromProjection(order))
}

func (api *OrdersAPI) checkout(ctx context.Context, input orderstypes.CheckoutInput) (*ordersports.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, input)
	}
	return api.service.Checkout(ctx, input)
}

// Get /api/orders/:id
// Find an order by ID
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Get /api/orders
// List orders newest first with optional status and date filters
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	filter, err := parseOrderFilter(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	// Cashiers see their own sales; admins see the full ledger.
	if user := currentUser(c); user != nil && user.Role != usersdomain.RoleAdmin {
		filter.CashierID = user.ID
	}
	orders, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjections(orders))
}

// Get /api/orders/:id/receipt
// Render the printable receipt for a sale
func (api *OrdersAPI) GetReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.ToReceipt(order))
}

// Post /api/orders/:id/refund
// Refund a completed sale, optionally restoring stock
func (api *OrdersAPI) RefundOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload orderhttpmapper.RefundRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToRefundInput(payload, id, currentUser(c).ID)
	order, err := api.service.Refund(c.Request.Context(), input)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Put /api/orders/:id/status
// Transition an order to a new status
func (api *OrdersAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), id, ordersdomain.Status(payload.Status))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

func parseOrderFilter(c *gin.Context) (ordersports.ListFilter, error) {
	filter := ordersports.ListFilter{
		Status:        ordersdomain.Status(c.Query("status")),
		PaymentMethod: ordersdomain.PaymentMethod(c.Query("paymentMethod")),
	}
	if raw := c.Query("cashierId"); raw != "" {
		cashierID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ordersports.ListFilter{}, err
		}
		filter.CashierID = cashierID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ordersports.ListFilter{}, err
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ordersports.ListFilter{}, err
		}
		filter.To = to
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return ordersports.ListFilter{}, err
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return ordersports.ListFilter{}, err
		}
		filter.Offset = offset
	}
	return filter, nil
}
