package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
)

var _ ports.NumberSequence = (*NumberSequence)(nil)

// NumberSequence counts sales per business day under a single lock, giving
// the same no-gaps, no-duplicates guarantee as the database-backed counter.
type NumberSequence struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func NewNumberSequence() *NumberSequence {
	return &NumberSequence{seqs: map[string]int64{}}
}

func (s *NumberSequence) Next(_ context.Context, day time.Time) (int64, error) {
	key := day.Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqs[key]++
	return s.seqs[key], nil
}
