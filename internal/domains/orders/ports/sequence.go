package ports

import (
	"context"
	"time"
)

// NumberSequence hands out the next position within a business day. The
// implementation must be atomic so two concurrent checkouts never share a
// sequence value.
type NumberSequence interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}
