package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Category buckets products into the fixed set the register UI knows about.
type Category string

const (
	CategoryElectronics  Category = "Electronics"
	CategoryClothing     Category = "Clothing"
	CategoryFoodBeverage Category = "Food & Beverage"
	CategoryBooks        Category = "Books"
	CategoryHealthBeauty Category = "Health & Beauty"
	CategoryHomeGarden   Category = "Home & Garden"
	CategorySports       Category = "Sports"
	CategoryToys         Category = "Toys"
	CategoryAutomotive   Category = "Automotive"
	CategoryOther        Category = "Other"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrInvalidCategory   = errors.New("product category is invalid")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrNegativeCost      = errors.New("cost cannot be negative")
	ErrNegativeStock     = errors.New("stock cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Supplier captures the optional supplier contact block.
type Supplier struct {
	Name    string
	Contact string
	Email   string
}

// Product is the catalog aggregate: everything the register needs to sell a unit.
type Product struct {
	ID          int64
	Name        string
	Description string
	SKU         string
	Barcode     string
	Category    Category
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Stock       int64
	MinStock    int64
	MaxStock    int64
	Unit        string
	Tags        []string
	Active      bool
	Supplier    *Supplier
	CreatedBy   int64
}

// NewProduct validates invariants and builds a sellable product with defaults applied.
func NewProduct(id int64, name string, category Category, price decimal.Decimal, stock int64) (*Product, error) {
	p := &Product{
		ID:       id,
		Category: category,
		MinStock: 5,
		MaxStock: 1000,
		Unit:     "piece",
		Active:   true,
	}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.ChangePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	p.Stock = stock
	if !isValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return p, nil
}

// Rename trims and enforces the non-empty name invariant.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// ChangePrice rejects negative prices.
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// ChangeCost rejects negative unit costs.
func (p *Product) ChangeCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return ErrNegativeCost
	}
	p.Cost = cost
	return nil
}

// ChangeCategory validates against the fixed category set.
func (p *Product) ChangeCategory(category Category) error {
	if !isValidCategory(category) {
		return ErrInvalidCategory
	}
	p.Category = category
	return nil
}

// AdjustStock applies a signed delta, refusing to drive stock negative.
// Persistence adapters enforce the same condition atomically; this is the
// in-memory mirror of that rule.
func (p *Product) AdjustStock(delta int64) error {
	next := p.Stock + delta
	if next < 0 {
		return ErrInsufficientStock
	}
	p.Stock = next
	return nil
}

// Deactivate soft-deletes the product. Historical orders keep rendering from
// their snapshot fields, so the record is never hard-deleted.
func (p *Product) Deactivate() {
	p.Active = false
}

// Activate returns the product to sale.
func (p *Product) Activate() {
	p.Active = true
}

// IsLowStock reports whether stock has fallen to the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// IsOutOfStock reports whether no sellable units remain.
func (p *Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// ReplaceTags swaps the tag set, defensively copied.
func (p *Product) ReplaceTags(tags []string) {
	p.Tags = append([]string{}, tags...)
}

// Validate re-applies the aggregate invariants before persistence.
func (p *Product) Validate() error {
	if err := p.Rename(p.Name); err != nil {
		return err
	}
	if !isValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Cost.IsNegative() {
		return ErrNegativeCost
	}
	if p.Stock < 0 || p.MinStock < 0 || p.MaxStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

func isValidCategory(category Category) bool {
	switch category {
	case CategoryElectronics, CategoryClothing, CategoryFoodBeverage, CategoryBooks,
		CategoryHealthBeauty, CategoryHomeGarden, CategorySports, CategoryToys,
		CategoryAutomotive, CategoryOther:
		return true
	default:
		return false
	}
}
