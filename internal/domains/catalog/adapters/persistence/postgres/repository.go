package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	"github.com/Apurer/go-pos-api-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Name          string          `gorm:"column:name;index"`
	Description   string          `gorm:"column:description"`
	SKU           string          `gorm:"column:sku;uniqueIndex;size:64"`
	Barcode       string          `gorm:"column:barcode;index;size:64"`
	Category      string          `gorm:"column:category;type:varchar(32);index"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(12,2)"`
	Cost          decimal.Decimal `gorm:"column:cost;type:decimal(12,2)"`
	Stock         int64           `gorm:"column:stock;index"`
	MinStock      int64           `gorm:"column:min_stock"`
	MaxStock      int64           `gorm:"column:max_stock"`
	Unit          string          `gorm:"column:unit;size:32"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[]"`
	Active        bool            `gorm:"column:active;index"`
	SupplierName  string          `gorm:"column:supplier_name"`
	SupplierPhone string          `gorm:"column:supplier_contact"`
	SupplierEmail string          `gorm:"column:supplier_email"`
	CreatedBy     int64           `gorm:"column:created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;index"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":             record.Name,
				"description":      record.Description,
				"sku":              record.SKU,
				"barcode":          record.Barcode,
				"category":         record.Category,
				"price":            record.Price,
				"cost":             record.Cost,
				"min_stock":        record.MinStock,
				"max_stock":        record.MaxStock,
				"unit":             record.Unit,
				"tags":             record.Tags,
				"active":           record.Active,
				"supplier_name":    record.SupplierName,
				"supplier_contact": record.SupplierPhone,
				"supplier_email":   record.SupplierEmail,
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns products matching the filter.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&productRecord{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.LowStock {
		query = query.Where("stock <= min_stock")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR barcode ILIKE ?", pattern, pattern, pattern)
	}
	var records []productRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.ProductProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// AdjustStock applies a signed delta as one conditional UPDATE so concurrent
// checkouts cannot drive stock negative. Zero rows affected means either the
// product is missing or the decrement would oversell; the follow-up read
// distinguishes the two.
func (r *Repository) AdjustStock(ctx context.Context, id int64, delta int64) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ports.ErrInsufficientStock
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	rec := productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
		Barcode:     product.Barcode,
		Category:    string(product.Category),
		Price:       product.Price,
		Cost:        product.Cost,
		Stock:       product.Stock,
		MinStock:    product.MinStock,
		MaxStock:    product.MaxStock,
		Unit:        product.Unit,
		Tags:        pq.StringArray(product.Tags),
		Active:      product.Active,
		CreatedBy:   product.CreatedBy,
	}
	if product.Supplier != nil {
		rec.SupplierName = product.Supplier.Name
		rec.SupplierPhone = product.Supplier.Contact
		rec.SupplierEmail = product.Supplier.Email
	}
	return rec
}

func (r productRecord) toProjection() *ports.ProductProjection {
	product := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		Barcode:     r.Barcode,
		Category:    domain.Category(r.Category),
		Price:       r.Price,
		Cost:        r.Cost,
		Stock:       r.Stock,
		MinStock:    r.MinStock,
		MaxStock:    r.MaxStock,
		Unit:        r.Unit,
		Tags:        append([]string{}, r.Tags...),
		Active:      r.Active,
		CreatedBy:   r.CreatedBy,
	}
	if r.SupplierName != "" || r.SupplierPhone != "" || r.SupplierEmail != "" {
		product.Supplier = &domain.Supplier{Name: r.SupplierName, Contact: r.SupplierPhone, Email: r.SupplierEmail}
	}
	return &ports.ProductProjection{
		Product:  product,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
