// Package ledger executes buy and sell orders against client cash and holdings and keeps
// portfolio valuations in step with them.
package ledger

import (
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
)

type Service struct {
	store        domain.Store
	recalculator *Recalculator
	now          func() time.Time
}

type Option func(s *Service)

// WithClock replaces time.Now for every timestamp the service records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.recalculator = NewRecalculator(s.now)

	return s
}
