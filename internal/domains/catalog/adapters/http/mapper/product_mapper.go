package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
)

// Supplier is the transport shape of a product supplier.
type Supplier struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CreateProductRequest is the payload accepted by POST /api/products.
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int64           `json:"stock"`
	MinStock    *int64          `json:"minStock,omitempty"`
	MaxStock    *int64          `json:"maxStock,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Supplier    *Supplier       `json:"supplier,omitempty"`
}

// UpdateProductRequest carries optional overrides; absent fields stay untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	MinStock    *int64           `json:"minStock,omitempty"`
	MaxStock    *int64           `json:"maxStock,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// UpdateStockRequest is the payload for PUT /api/products/:id/stock.
type UpdateStockRequest struct {
	Quantity  int64  `json:"quantity" binding:"required"`
	Operation string `json:"operation" binding:"required"`
}

// ProductResponse is the transport representation of a product. Monetary
// amounts render as fixed two-decimal strings.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	Category    string    `json:"category"`
	Price       string    `json:"price"`
	Cost        string    `json:"cost"`
	Stock       int64     `json:"stock"`
	MinStock    int64     `json:"minStock"`
	MaxStock    int64     `json:"maxStock"`
	Unit        string    `json:"unit"`
	Tags        []string  `json:"tags,omitempty"`
	Active      bool      `json:"active"`
	LowStock    bool      `json:"lowStock"`
	Supplier    *Supplier `json:"supplier,omitempty"`
	CreatedBy   int64     `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToDomainProduct builds a product aggregate from a create request.
func ToDomainProduct(req CreateProductRequest, createdBy int64) (*catalogdomain.Product, error) {
	product, err := catalogdomain.NewProduct(0, req.Name, catalogdomain.Category(req.Category), req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.SKU = req.SKU
	product.Barcode = req.Barcode
	product.Cost = req.Cost
	product.CreatedBy = createdBy
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		product.MaxStock = *req.MaxStock
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	if len(req.Tags) > 0 {
		product.ReplaceTags(req.Tags)
	}
	if req.Supplier != nil {
		product.Supplier = &catalogdomain.Supplier{
			Name:    req.Supplier.Name,
			Contact: req.Supplier.Contact,
			Email:   req.Supplier.Email,
		}
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// ToUpdateInput converts an update request into the application input.
func ToUpdateInput(req UpdateProductRequest) catalogports.UpdateProductInput {
	input := catalogports.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Price:       req.Price,
		Cost:        req.Cost,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		Unit:        req.Unit,
		Tags:        req.Tags,
		Active:      req.Active,
	}
	if req.Category != nil {
		category := catalogdomain.Category(*req.Category)
		input.Category = &category
	}
	return input
}

// FromProjection converts a stored product to the transport representation.
func FromProjection(p *catalogports.ProductProjection) ProductResponse {
	if p == nil || p.Product == nil {
		return ProductResponse{}
	}
	product := p.Product
	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
		Barcode:     product.Barcode,
		Category:    string(product.Category),
		Price:       product.Price.StringFixed(2),
		Cost:        product.Cost.StringFixed(2),
		Stock:       product.Stock,
		MinStock:    product.MinStock,
		MaxStock:    product.MaxStock,
		Unit:        product.Unit,
		Tags:        product.Tags,
		Active:      product.Active,
		LowStock:    product.IsLowStock(),
		CreatedBy:   product.CreatedBy,
		CreatedAt:   p.Metadata.CreatedAt,
		UpdatedAt:   p.Metadata.UpdatedAt,
	}
	if product.Supplier != nil {
		resp.Supplier = &Supplier{
			Name:    product.Supplier.Name,
			Contact: product.Supplier.Contact,
			Email:   product.Supplier.Email,
		}
	}
	return resp
}

// FromProjections maps a list of stored products.
func FromProjections(list []*catalogports.ProductProjection) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p))
	}
	return out
}
