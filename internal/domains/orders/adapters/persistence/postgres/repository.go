package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	"github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	"github.com/Apurer/go-pos-api-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// lineItemRecord is the jsonb shape of a sold line. Amounts serialize as
// decimal strings so the snapshot survives round-trips exactly.
type lineItemRecord struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderRecord struct {
	ID             int64            `gorm:"primaryKey;column:id"`
	Number         string           `gorm:"column:number;uniqueIndex;size:32"`
	Items          []lineItemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal       decimal.Decimal  `gorm:"column:subtotal;type:decimal(12,2)"`
	DiscountType   string           `gorm:"column:discount_type;size:16"`
	DiscountValue  decimal.Decimal  `gorm:"column:discount_value;type:decimal(12,2)"`
	DiscountAmount decimal.Decimal  `gorm:"column:discount_amount;type:decimal(12,2)"`
	TaxPercent     decimal.Decimal  `gorm:"column:tax_percent;type:decimal(6,3)"`
	TaxAmount      decimal.Decimal  `gorm:"column:tax_amount;type:decimal(12,2)"`
	Total          decimal.Decimal  `gorm:"column:total;type:decimal(12,2)"`
	PaymentMethod  string           `gorm:"column:payment_method;size:32"`
	Status         string           `gorm:"column:status;size:16;index"`
	CashierID      int64            `gorm:"column:cashier_id;index"`
	CashierName    string           `gorm:"column:cashier_name"`
	CustomerName   string           `gorm:"column:customer_name"`
	CustomerPhone  string           `gorm:"column:customer_phone"`
	CustomerEmail  string           `gorm:"column:customer_email"`
	Notes          string           `gorm:"column:notes;size:500"`
	RefundAmount   *decimal.Decimal `gorm:"column:refund_amount;type:decimal(12,2)"`
	RefundReason   string           `gorm:"column:refund_reason"`
	RefundedBy     int64            `gorm:"column:refunded_by"`
	RefundedAt     *time.Time       `gorm:"column:refunded_at"`
	CreatedAt      time.Time        `gorm:"column:created_at;index"`
	UpdatedAt      time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "notes", "refund_amount", "refund_reason", "refunded_by", "refunded_at", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	order.ID = record.ID
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", string(filter.PaymentMethod))
	}
	if filter.CashierID != 0 {
		query = query.Where("cashier_id = ?", filter.CashierID)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	// Both date bounds are inclusive.
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var records []orderRecord
	if err := query.Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*ports.OrderProjection, 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// Delete removes an order record. Only the checkout unwind path uses this.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]lineItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemRecord{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	record := orderRecord{
		ID:             order.ID,
		Number:         order.Number,
		Items:          items,
		Subtotal:       order.Subtotal,
		DiscountType:   string(order.Discount.Type),
		DiscountValue:  order.Discount.Value,
		DiscountAmount: order.Discount.Amount,
		TaxPercent:     order.Tax.Percentage,
		TaxAmount:      order.Tax.Amount,
		Total:          order.Total,
		PaymentMethod:  string(order.PaymentMethod),
		Status:         string(order.Status),
		CashierID:      order.CashierID,
		CashierName:    order.CashierName,
		Notes:          order.Notes,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      time.Now(),
	}
	if order.Customer != nil {
		record.CustomerName = order.Customer.Name
		record.CustomerPhone = order.Customer.Phone
		record.CustomerEmail = order.Customer.Email
	}
	if order.Refund != nil {
		amount := order.Refund.Amount
		refundedAt := order.Refund.RefundedAt
		record.RefundAmount = &amount
		record.RefundReason = order.Refund.Reason
		record.RefundedBy = order.Refund.RefundedBy
		record.RefundedAt = &refundedAt
	}
	return record
}

func (r orderRecord) toProjection() *ports.OrderProjection {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	order := &domain.Order{
		ID:       r.ID,
		Number:   r.Number,
		Items:    items,
		Subtotal: r.Subtotal,
		Discount: domain.Discount{
			Type:   domain.DiscountType(r.DiscountType),
			Value:  r.DiscountValue,
			Amount: r.DiscountAmount,
		},
		Tax: domain.Tax{
			Percentage: r.TaxPercent,
			Amount:     r.TaxAmount,
		},
		Total:         r.Total,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Status:        domain.Status(r.Status),
		CashierID:     r.CashierID,
		CashierName:   r.CashierName,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
	if r.CustomerName != "" || r.CustomerPhone != "" || r.CustomerEmail != "" {
		order.Customer = &domain.Customer{Name: r.CustomerName, Phone: r.CustomerPhone, Email: r.CustomerEmail}
	}
	if r.RefundAmount != nil && r.RefundedAt != nil {
		order.Refund = &domain.Refund{
			Amount:     *r.RefundAmount,
			Reason:     r.RefundReason,
			RefundedBy: r.RefundedBy,
			RefundedAt: *r.RefundedAt,
		}
	}
	return &ports.OrderProjection{
		Order:    order,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
