package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&counterRecord{},
		&idempotencyRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter. Line items live in a
// jsonb column because they are immutable snapshots, never queried row-wise.
type orderRecord struct {
	ID             int64            `gorm:"primaryKey;column:id"`
	Number         string           `gorm:"column:number;uniqueIndex;size:32"`
	Items          string           `gorm:"column:items;type:jsonb"`
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

// Counter schema backs the per-day order number sequence.
type counterRecord struct {
	Day string `gorm:"primaryKey;column:day;size:10"`
	Seq int64  `gorm:"column:seq"`
}

func (counterRecord) TableName() string { return "order_counters" }

// Idempotency schema mirrors the checkout idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	FullName     string    `gorm:"column:full_name"`
	Email        string    `gorm:"column:email"`
	Role         string    `gorm:"column:role;size:16"`
	PasswordHash string    `gorm:"column:password_hash"`
	Active       bool      `gorm:"column:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
