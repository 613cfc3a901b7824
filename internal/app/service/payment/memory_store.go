package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/types"
)

// MemoryStore is an in-process Store used in tests and local development.
// Records are kept in insertion order and handed out as clones.
type MemoryStore struct {
	mu       sync.RWMutex
	payments map[string]*models.Payment
	order    []string
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payments: make(map[string]*models.Payment)}
}

func (s *MemoryStore) Create(_ context.Context, p *models.Payment) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.PaymentID]; exists {
		return nil, fmt.Errorf("payment %s already exists", p.PaymentID)
	}
	s.nextID++
	rec := p.Clone()
	rec.ID = s.nextID
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.payments[rec.PaymentID] = rec
	s.order = append(s.order, rec.PaymentID)
	return rec.Clone(), nil
}

func (s *MemoryStore) FindByPaymentID(_ context.Context, paymentID string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
	}
	return p.Clone(), nil
}

func (s *MemoryStore) FindByOrderID(_ context.Context, orderID string) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*models.Payment, 0)
	for _, id := range s.order {
		if p := s.payments[id]; p.OrderID == orderID {
			res = append(res, p.Clone())
		}
	}
	return res, nil
}

func (s *MemoryStore) FindByStatus(_ context.Context, status types.PaymentStatus) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*models.Payment, 0)
	for _, id := range s.order {
		if p := s.payments[id]; p.Status == status {
			res = append(res, p.Clone())
		}
	}
	return res, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*models.Payment, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.payments[id].Clone())
	}
	return res, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, paymentID string, from, to types.PaymentStatus) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
	}
	if p.Status != from {
		return nil, fmt.Errorf("%w: payment %s is %s, expected %s", ErrInvalidTransition, paymentID, p.Status, from)
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	return p.Clone(), nil
}
