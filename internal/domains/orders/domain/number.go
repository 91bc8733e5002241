package domain

import (
	"fmt"
	"time"
)

// FormatOrderNumber renders the human-facing order number printed on
// receipts: ORD-YYYYMMDD-NNNN, where NNNN is the zero-padded position of the
// sale within its business day.
func FormatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", day.Format("20060102"), seq)
}
