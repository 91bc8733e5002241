package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

var _ ports.NumberSequence = (*NumberSequence)(nil)

// NumberSequence allocates daily receipt positions with a single upsert, so
// two concurrent checkouts can never draw the same value.
type NumberSequence struct {
	db *gorm.DB
}

// NewNumberSequence wires a PostgreSQL-backed daily counter.
func NewNumberSequence(db *gorm.DB) *NumberSequence {
	return &NumberSequence{db: db}
}

// CounterRecord is the per-day counter row backing order numbers.
type CounterRecord struct {
	Day string `gorm:"primaryKey;column:day;size:10"`
	Seq int64  `gorm:"column:seq"`
}

func (CounterRecord) TableName() string { return "order_counters" }

// Next returns the next position within the given business day.
func (s *NumberSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("postgres number sequence not configured")
	}
	var seq int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (day, seq) VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		 RETURNING seq`,
		day.Format("2006-01-02"),
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
