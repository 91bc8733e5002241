package posserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/go-pos-api-server/internal/domains/catalog/adapters/http/mapper"
	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
)

// ProductsAPI wires HTTP transport with the catalog bounded context service.
type ProductsAPI struct {
	service catalogports.Service
}

// NewProductsAPI creates a ProductsAPI backed by the provided service.
func NewProductsAPI(service catalogports.Service) ProductsAPI {
	return ProductsAPI{service: service}
}

// Post /api/products
// Add a product to the catalog
func (api *ProductsAPI) CreateProduct(c *gin.Context) {
	var payload cataloghttpmapper.CreateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := cataloghttpmapper.ToDomainProduct(payload, currentUser(c).ID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	saved, err := api.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromProjection(saved))
}

// Put /api/products/:id
// Update catalog fields of an existing product
func (api *ProductsAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cataloghttpmapper.UpdateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), id, cataloghttpmapper.ToUpdateInput(payload))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjection(updated))
}

// Get /api/products/:id
// Find a product by ID
func (api *ProductsAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjection(product))
}

// Get /api/products
// List products with optional search, category, and stock filters
func (api *ProductsAPI) ListProducts(c *gin.Context) {
	filter := catalogports.ListFilter{
		Search:     c.Query("search"),
		Category:   catalogdomain.Category(c.Query("category")),
		ActiveOnly: c.DefaultQuery("active", "true") == "true",
		LowStock:   c.Query("lowStock") == "true",
	}
	products, err := api.service.List(c.Request.Context(), filter)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjections(products))
}

// Get /api/products/low-stock
// List active products at or below their restock threshold
func (api *ProductsAPI) LowStockProducts(c *gin.Context) {
	products, err := api.service.LowStock(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjections(products))
}

// Put /api/products/:id/stock
// Manually add or subtract stock
func (api *ProductsAPI) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cataloghttpmapper.UpdateStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateStock(c.Request.Context(), id, payload.Quantity, catalogports.StockOperation(payload.Operation))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromProjection(updated))
}

// Delete /api/products/:id
// Retire a product from sale without losing its sales history
func (api *ProductsAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Deactivate(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return id, true
}
